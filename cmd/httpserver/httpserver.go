// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/cash-card/internal/authnservice"
	"github.com/go-petr/cash-card/internal/authzpolicy"
	"github.com/go-petr/cash-card/internal/cashcarddelivery"
	"github.com/go-petr/cash-card/internal/cashcardrepo"
	"github.com/go-petr/cash-card/internal/cashcardservice"
	"github.com/go-petr/cash-card/internal/credentialrepo"
	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/internal/middleware"
	"github.com/go-petr/cash-card/internal/observability"
	"github.com/go-petr/cash-card/pkg/configpkg"
	"github.com/go-petr/cash-card/pkg/web"
)

// CashCardsPath is the prefix of every cash card route.
const CashCardsPath = "/cashcards"

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Deps are the collaborators the server is assembled from.
type Deps struct {
	CashCards   cashcardservice.Repo
	Credentials authnservice.Store
	Policy      middleware.Authorizer
}

// New creates Server type with storage, credentials and policy selected by config.
// conn may be nil when neither storage nor credentials live in Postgres.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	deps, err := DepsFromConfig(conn, config)
	if err != nil {
		return nil, err
	}

	return NewWithDeps(conn, logger, config, deps)
}

// DepsFromConfig builds the server collaborators described by config.
func DepsFromConfig(conn *sql.DB, config configpkg.Config) (Deps, error) {
	var deps Deps

	switch config.StorageDriver {
	case configpkg.StoragePostgres:
		if conn == nil {
			return deps, fmt.Errorf("storage driver %q needs a database connection", config.StorageDriver)
		}

		deps.CashCards = cashcardrepo.NewRepoPGS(conn)
	case configpkg.StorageMemory:
		deps.CashCards = cashcardrepo.NewRepoMem()
	default:
		return deps, fmt.Errorf("unknown storage driver %q", config.StorageDriver)
	}

	switch config.CredentialsSource {
	case configpkg.CredentialsFile:
		store, err := credentialrepo.LoadRepoFile(config.CredentialsFile, config.BcryptCost)
		if err != nil {
			return deps, fmt.Errorf("cannot load credentials: %w", err)
		}

		deps.Credentials = store
	case configpkg.CredentialsPostgres:
		if conn == nil {
			return deps, fmt.Errorf("credentials source %q needs a database connection", config.CredentialsSource)
		}

		deps.Credentials = credentialrepo.NewRepoPGS(conn)
	default:
		return deps, fmt.Errorf("unknown credentials source %q", config.CredentialsSource)
	}

	if config.PolicyFile == "" {
		deps.Policy = authzpolicy.RoleRestricted(CashCardsPath, domain.RoleCardOwner)
		return deps, nil
	}

	policy, err := authzpolicy.Load(config.PolicyFile)
	if err != nil {
		return deps, fmt.Errorf("cannot load policy: %w", err)
	}

	deps.Policy = policy

	return deps, nil
}

// NewWithDeps creates Server type from already built collaborators.
func NewWithDeps(conn *sql.DB, logger zerolog.Logger, config configpkg.Config, deps Deps) (*Server, error) {
	authn, err := authnservice.New(deps.Credentials, config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize authentication: %w", err)
	}

	cashCardService := cashcardservice.New(deps.CashCards)
	cashCardHandler := cashcarddelivery.NewHandler(cashCardService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())
	engine.Use(observability.Middleware(middleware.AuthOutcomeKey))

	engine.GET("/healthz", health(conn))
	engine.GET("/metrics", observability.Handler())

	authenticate := middleware.Authenticate(authn)
	authorize := middleware.Authorize(deps.Policy)

	cashCardRoutes := engine.Group(CashCardsPath, authenticate, authorize)
	cashCardHandler.Register(cashCardRoutes)

	// Group middleware only runs for matched routes. Unmatched paths and
	// methods under the prefix get the same credential and role checks
	// before the 404 or 405, and no trailing slash redirect.
	engine.RedirectTrailingSlash = false
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(underPrefix(authenticate), underPrefix(authorize), notFound)
	engine.NoMethod(underPrefix(authenticate), underPrefix(authorize), methodNotAllowed)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}

func health(conn *sql.DB) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		if conn != nil {
			if err := conn.PingContext(gctx.Request.Context()); err != nil {
				zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Msg("database ping failed")
				gctx.JSON(http.StatusServiceUnavailable, web.ErrorMsg("database unavailable"))

				return
			}
		}

		gctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// underPrefix runs h only for requests whose path lies under CashCardsPath.
func underPrefix(h gin.HandlerFunc) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		p := gctx.Request.URL.Path
		if p == CashCardsPath || strings.HasPrefix(p, CashCardsPath+"/") {
			h(gctx)
		}
	}
}

func notFound(gctx *gin.Context) {
	gctx.JSON(http.StatusNotFound, web.ErrorMsg("not found"))
}

func methodNotAllowed(gctx *gin.Context) {
	gctx.JSON(http.StatusMethodNotAllowed, web.ErrorMsg("method not allowed"))
}
