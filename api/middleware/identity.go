package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/api/responses"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
	"github.com/skillearn/skillearn-backend/pkg/logger"
)

const (
	userIDHeader     = "X-User-Id"
	operatorIDHeader = "X-Operator-Id"
)

// Identity lifts the gateway-verified principal headers into the request
// context. The API trusts the fronting gateway to have authenticated the
// caller; handlers only see opaque identifiers.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if raw := strings.TrimSpace(r.Header.Get(userIDHeader)); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user identity"))
					return
				}
				ctx = WithUserID(ctx, id.String())
				if logg != nil {
					ctx = logg.WithUserID(ctx, id.String())
				}
			}

			if raw := strings.TrimSpace(r.Header.Get(operatorIDHeader)); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid operator identity"))
					return
				}
				ctx = WithOperatorID(ctx, id.String())
				if logg != nil {
					ctx = logg.WithOperatorID(ctx, id.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that carry no agent identity.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOperator rejects admin requests that carry no operator identity.
func RequireOperator(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if OperatorIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator identity required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
