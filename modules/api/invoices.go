package api

import (
	"net/http"

	"github.com/shieldstack/billing/core"
)

func (h *handlers) listInvoices(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	invoices, err := h.billing.ListInvoices(r.Context(), callerID(r.Context()), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, toInvoiceView(inv))
	}
	core.JSON(w, http.StatusOK, views)
}

func (h *handlers) payInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := pathID(r, "invoiceID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	result, err := h.billing.PayInvoice(r.Context(), callerID(r.Context()), invoiceID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	view := paymentView{Invoice: toInvoiceView(result.Invoice)}
	if result.Subscription != nil {
		sub := toSubscriptionView(*result.Subscription)
		view.Subscription = &sub
	}
	core.JSON(w, http.StatusOK, view)
}
