package api

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	"github.com/CLDWare/methods-lab/config"
	_ "github.com/CLDWare/methods-lab/docs"
	"github.com/CLDWare/methods-lab/internal/handlers"
	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/internal/middleware"
	"github.com/CLDWare/methods-lab/internal/realtime"
	"github.com/CLDWare/methods-lab/internal/store"
)

// @title			Methods Lab API
// @version		1.0
// @description	Classroom polling on Mill's methods of causal inference.
// @BasePath		/
// @securityDefinitions.apikey	ApiKey
// @in								header
// @name							apikey

// API holds the API dependencies
type API struct {
	config   *config.Config
	store    *store.Store
	authMW   middleware.AuthenticationMiddleware
	apiKeyMW func(http.Handler) http.Handler

	versionHandler  *handlers.VersionHandler
	sessionHandler  *handlers.SessionHandler
	groupHandler    *handlers.GroupHandler
	scenarioHandler *handlers.ScenarioHandler
	viewHandler     *handlers.ViewHandler
	realtimeHandler *handlers.RealtimeHandler
	authHandler     *handlers.AuthenticationHandler
	userHandler     *handlers.UserHandler
}

// NewAPI creates a new API instance. Every write through the API is
// published on hub.
func NewAPI(cfg *config.Config, db *gorm.DB, hub *realtime.Hub) *API {
	st := store.New(db, hub)
	return &API{
		config:          cfg,
		store:           st,
		authMW:          middleware.AuthenticationMiddleware{DB: db, Enabled: cfg.OAuth.Enabled()},
		apiKeyMW:        middleware.APIKey(cfg.Server.APIKey),
		versionHandler:  handlers.NewVersionHandler(cfg),
		sessionHandler:  handlers.NewSessionHandler(cfg, st),
		groupHandler:    handlers.NewGroupHandler(cfg, st),
		scenarioHandler: handlers.NewScenarioHandler(),
		viewHandler:     handlers.NewViewHandler(cfg, st),
		realtimeHandler: handlers.NewRealtimeHandler(cfg, hub),
		authHandler:     handlers.NewAuthenticationHandler(cfg, db),
		userHandler:     handlers.NewUserHandler(cfg, db),
	}
}

// Store exposes the data layer the API writes through
func (api *API) Store() *store.Store {
	return api.store
}

// Close drops every realtime connection
func (api *API) Close() {
	api.realtimeHandler.CloseAll()
}

// CreateMux creates and configures the HTTP mux
func (api *API) CreateMux() *http.ServeMux {
	mux := http.NewServeMux()
	api.setupRoutes(mux)
	return mux
}

// setupRoutes configures all the routes.
func (api *API) setupRoutes(mux *http.ServeMux) {
	presenter := api.authMW.Required
	keyed := func(h http.HandlerFunc) http.Handler {
		return api.apiKeyMW(h)
	}

	// Version route
	mux.HandleFunc("/v", api.versionHandler.GetVersion)

	// Screens
	mux.HandleFunc("/{$}", api.viewHandler.GetLanding)
	mux.HandleFunc("/presenter", presenter(api.viewHandler.GetPresenter))
	mux.HandleFunc("/projector", api.viewHandler.GetProjector)
	mux.HandleFunc("/group/{id}", api.viewHandler.GetStudent)

	// Sessions
	mux.Handle("/api/session", keyed(presenter(api.sessionHandler.PostSession)))
	mux.Handle("/api/session/current", keyed(api.sessionHandler.GetCurrentSession))
	mux.Handle("/api/session/latest", keyed(api.sessionHandler.GetLatestSession))
	mux.Handle("/api/session/{id}", keyed(api.sessionHandler.GetSession))
	mux.Handle("/api/session/{id}/phase", keyed(presenter(api.sessionHandler.PostSessionPhase)))
	mux.Handle("/api/session/{id}/status", keyed(presenter(api.sessionHandler.PostSessionStatus)))
	mux.Handle("/api/session/{id}/activate", keyed(presenter(api.sessionHandler.PostSessionActivate)))
	mux.Handle("/api/session/{id}/end", keyed(presenter(api.sessionHandler.PostSessionEnd)))
	mux.Handle("/api/session/{id}/reveal", keyed(presenter(api.sessionHandler.PostSessionReveal)))
	mux.Handle("/api/session/{id}/groups", keyed(api.sessionHandler.GetSessionGroups))
	mux.Handle("/api/session/{id}/submissions", keyed(api.sessionHandler.GetSessionSubmissions))

	// Groups
	mux.Handle("/api/group/{id}", keyed(api.groupHandler.GetGroup))
	mux.Handle("/api/group/{id}/submissions", keyed(api.groupHandler.GetGroupSubmissions))
	mux.Handle("/api/group/{id}/submission", keyed(api.groupHandler.PostSubmission))

	// Scenario catalog
	mux.Handle("/api/scenarios", keyed(api.scenarioHandler.GetScenarios))
	mux.Handle("/api/scenarios/{method}", keyed(api.scenarioHandler.GetScenario))

	// Change feed
	mux.Handle("/realtime", keyed(api.realtimeHandler.InitialiseWebsocket))

	// Presenter login
	if api.config.OAuth.Enabled() {
		mux.HandleFunc("/login", api.authHandler.GetLogin)
		mux.HandleFunc("/oauth2callback", api.authHandler.GetOAuthCallback)
		mux.HandleFunc("/logout", api.authHandler.PostLogout)
	}
	mux.HandleFunc("/me", presenter(api.userHandler.GetMe))

	// API docs
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// fallback route - must be last because it matches all routes.
	mux.HandleFunc("/", fallBack)
}

// ApplyMiddleware applies middleware to a handler
func ApplyMiddleware(handler http.Handler) http.Handler {
	return middleware.LoggingMiddleware(
		middleware.CORSMiddleware(
			i18n.Middleware(handler),
		),
	)
}

func fallBack(w http.ResponseWriter, r *http.Request) {
	gecho.NotFound(w).Send()
}
