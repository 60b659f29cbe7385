package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/web"
)

// Authorizer decides whether an identity may call a route.
type Authorizer interface {
	Authorize(id domain.Identity, method, route string) error
}

// Authorize must run after Authenticate. The route is the gin route pattern,
// so /cashcards/:id is checked the same way for every id.
func Authorize(a Authorizer) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		id, ok := IdentityFrom(gctx)
		if !ok {
			abortUnauthenticated(gctx)
			return
		}

		route := gctx.FullPath()
		if route == "" {
			route = gctx.Request.URL.Path
		}

		if err := a.Authorize(id, gctx.Request.Method, route); err != nil {
			zerolog.Ctx(gctx.Request.Context()).Warn().
				Str("username", id.Username).
				Str("role", string(id.Role)).
				Str("route", route).
				Msg("access denied")

			gctx.Set(AuthOutcomeKey, OutcomeForbidden)
			gctx.AbortWithStatusJSON(http.StatusForbidden, web.Error(domain.ErrForbidden))

			return
		}

		gctx.Set(AuthOutcomeKey, OutcomeAllowed)
		gctx.Next()
	}
}
