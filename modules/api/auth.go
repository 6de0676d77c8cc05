package api

import (
	"net/http"

	"github.com/shieldstack/billing/core"
	"github.com/shieldstack/billing/pkg/logger"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	u, err := h.users.Register(r.Context(), req.Email, req.Password, req.CompanyName)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issuance failed", logger.UserID(u.ID), logger.Error(err))
		core.JSONError(w, err)
		return
	}

	core.JSON(w, http.StatusCreated, authView{Token: token, User: toUserView(u)})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issuance failed", logger.UserID(u.ID), logger.Error(err))
		core.JSONError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, authView{Token: token, User: toUserView(u)})
}
