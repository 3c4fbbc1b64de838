package public

import (
	"context"
	"net/http"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	"go.uber.org/zap"
)

func (h *Handler) signupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		customer, err := h.authService.Signup(ctx, account.CustomerInput{
			Email:       req.Email,
			Password:    req.Password,
			LastName:    req.LastName,
			FirstName:   req.FirstName,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "customer", common.NewCustomerResponse(*customer))
	}
}

// loginHandler は認証基盤でログインし、トークンを Cookie に保存する。
func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := h.authService.Login(ctx, req.Email, req.Password)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.SetSessionCookies(w, result.Session, h.cookieSecure)
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"success":    true,
			"role":       result.Role.String(),
			"redirectTo": result.RedirectTo,
		})
	}
}

// logoutHandler always clears the cookies; revoking at the provider is best-effort.
func (h *Handler) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.authService.Logout(ctx, auth.TokenFromRequest(r)); err != nil {
			h.logger.Warn("identity sign-out failed", zap.Error(err))
		}
		common.ClearSessionCookies(w, h.cookieSecure)
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}

func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		principal, err := h.guard.Current(ctx, r)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		payload := map[string]any{"role": principal.Role.String()}
		switch principal.Role {
		case auth.RoleAdmin:
			payload["admin"] = common.NewAdminResponse(*principal.Admin)
		case auth.RoleMember:
			payload["member"] = common.NewMemberResponse(*principal.Member)
		case auth.RoleCustomer:
			payload["customer"] = common.NewCustomerResponse(*principal.Customer)
		}
		common.WriteJSON(h.logger, w, http.StatusOK, payload)
	}
}
