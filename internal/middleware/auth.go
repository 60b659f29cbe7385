// Package middleware holds gin middlewares shared by every route group.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/errorspkg"
	"github.com/go-petr/cash-card/pkg/web"
)

const (
	// AuthPayloadKey is the gin context key of the authenticated domain.Identity.
	AuthPayloadKey = "auth_payload"
	// AuthOutcomeKey is the gin context key of the access decision made for the request.
	AuthOutcomeKey = "auth_outcome"

	// BasicRealm is sent in the WWW-Authenticate challenge.
	BasicRealm = `Basic realm="cashcard"`
)

// Access decisions stored under AuthOutcomeKey.
const (
	OutcomeAllowed         = "allowed"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
)

// Authenticator verifies presented credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)
}

// Authenticate rejects requests without valid HTTP Basic credentials.
// On success the caller identity is stored under AuthPayloadKey.
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		username, password, ok := gctx.Request.BasicAuth()
		if !ok {
			abortUnauthenticated(gctx)
			return
		}

		ctx := gctx.Request.Context()

		id, err := a.Authenticate(ctx, username, password)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				abortUnauthenticated(gctx)
				return
			}

			zerolog.Ctx(ctx).Error().Err(err).Msg("cannot authenticate request")
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

			return
		}

		gctx.Set(AuthPayloadKey, id)
		gctx.Next()
	}
}

func abortUnauthenticated(gctx *gin.Context) {
	gctx.Set(AuthOutcomeKey, OutcomeUnauthenticated)
	gctx.Header("WWW-Authenticate", BasicRealm)
	gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(domain.ErrUnauthenticated))
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(gctx *gin.Context) (domain.Identity, bool) {
	v, ok := gctx.Get(AuthPayloadKey)
	if !ok {
		return domain.Identity{}, false
	}

	id, ok := v.(domain.Identity)

	return id, ok
}
