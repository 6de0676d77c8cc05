package billing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Gateway is the payment-processor boundary. The production
// implementation is a simulation: it settles instantly and only hands
// out an external reference id.
type Gateway interface {
	CreateSubscription(ctx context.Context, userID, planID uuid.UUID) (externalID string, err error)
}

// simulatedGateway always succeeds and issues a random reference in the
// processor's `sub_<hex>` shape.
type simulatedGateway struct{}

// NewSimulatedGateway returns the stand-in payment processor.
func NewSimulatedGateway() Gateway {
	return simulatedGateway{}
}

func (simulatedGateway) CreateSubscription(_ context.Context, _, _ uuid.UUID) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate external subscription id: %w", err)
	}
	return "sub_" + hex.EncodeToString(buf), nil
}
