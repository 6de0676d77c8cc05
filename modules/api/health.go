package api

import (
	"context"
	"net/http"
	"time"

	"github.com/shieldstack/billing/core"
)

const healthTimeout = 5 * time.Second

type healthView struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *handlers) healthcheck(w http.ResponseWriter, r *http.Request) {
	view := healthView{Status: "ok"}
	status := http.StatusOK

	if len(h.health) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		view.Checks = make(map[string]string, len(h.health))
		for name, check := range h.health {
			if err := check(ctx); err != nil {
				view.Checks[name] = err.Error()
				view.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			view.Checks[name] = "ok"
		}
	}

	core.JSON(w, status, view)
}
