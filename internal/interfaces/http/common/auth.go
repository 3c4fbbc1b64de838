package common

import (
	"context"
	"net/http"

	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"go.uber.org/zap"
)

type contextKey string

const (
	adminContextKey    contextKey = "admin"
	memberContextKey   contextKey = "member"
	customerContextKey contextKey = "customer"
)

// RequireAdmin rejects requests without an active admin session (401) and
// stores the admin row in the request context.
func RequireAdmin(guard *auth.Guard, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, err := guard.RequireAdmin(r.Context(), r)
			if err != nil {
				WriteError(logger, w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminContextKey, admin)))
		})
	}
}

// RequireMember is RequireAdmin for company staff.
func RequireMember(guard *auth.Guard, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, err := guard.RequireMember(r.Context(), r)
			if err != nil {
				WriteError(logger, w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), memberContextKey, member)))
		})
	}
}

// RequireCustomer is RequireAdmin for customers.
func RequireCustomer(guard *auth.Guard, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customer, err := guard.RequireCustomer(r.Context(), r)
			if err != nil {
				WriteError(logger, w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), customerContextKey, customer)))
		})
	}
}

// AdminFromContext extracts the admin stored by RequireAdmin.
func AdminFromContext(ctx context.Context) (*domain.Admin, bool) {
	admin, ok := ctx.Value(adminContextKey).(*domain.Admin)
	return admin, ok && admin != nil
}

func MemberFromContext(ctx context.Context) (*domain.Member, bool) {
	member, ok := ctx.Value(memberContextKey).(*domain.Member)
	return member, ok && member != nil
}

func CustomerFromContext(ctx context.Context) (*domain.Customer, bool) {
	customer, ok := ctx.Value(customerContextKey).(*domain.Customer)
	return customer, ok && customer != nil
}
