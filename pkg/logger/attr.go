package logger

import (
	"log/slog"

	"github.com/google/uuid"
)

// Attribute helpers keep log field names consistent across components.

func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func UserID(id uuid.UUID) slog.Attr {
	return slog.String("user_id", id.String())
}

func SubscriptionID(id uuid.UUID) slog.Attr {
	return slog.String("subscription_id", id.String())
}

func InvoiceID(id uuid.UUID) slog.Attr {
	return slog.String("invoice_id", id.String())
}

func PlanID(id uuid.UUID) slog.Attr {
	return slog.String("plan_id", id.String())
}
