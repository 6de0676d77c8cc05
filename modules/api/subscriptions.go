package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shieldstack/billing/core"
)

type subscribeRequest struct {
	PlanID uuid.UUID `json:"plan_id"`
}

func (h *handlers) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	result, err := h.billing.Subscribe(r.Context(), callerID(r.Context()), req.PlanID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.JSON(w, http.StatusCreated, subscribeView{
		Subscription: toSubscriptionView(result.Subscription),
		Invoice:      toInvoiceView(result.Invoice),
	})
}

func (h *handlers) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	subID, err := pathID(r, "subscriptionID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	sub, err := h.billing.Cancel(r.Context(), callerID(r.Context()), subID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, toSubscriptionView(sub))
}

func (h *handlers) simulateFailure(w http.ResponseWriter, r *http.Request) {
	subID, err := pathID(r, "subscriptionID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	result, err := h.billing.SimulateFailure(r.Context(), callerID(r.Context()), subID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, subscribeView{
		Subscription: toSubscriptionView(result.Subscription),
		Invoice:      toInvoiceView(result.Invoice),
	})
}

func (h *handlers) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	subs, err := h.billing.ListSubscriptions(r.Context(), callerID(r.Context()), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	views := make([]subscriptionView, 0, len(subs))
	for _, s := range subs {
		views = append(views, toEnrichedSubscriptionView(s))
	}
	core.JSON(w, http.StatusOK, views)
}
