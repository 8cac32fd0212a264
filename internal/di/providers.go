package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campushq/edge-auth/internal/app"
	"github.com/campushq/edge-auth/internal/config"
	"github.com/campushq/edge-auth/internal/database"
	"github.com/campushq/edge-auth/internal/geo"
	"github.com/campushq/edge-auth/internal/http/handler"
	"github.com/campushq/edge-auth/internal/http/middleware"
	"github.com/campushq/edge-auth/internal/http/response"
	"github.com/campushq/edge-auth/internal/observability"
	"github.com/campushq/edge-auth/internal/repository"
	"github.com/campushq/edge-auth/internal/risk"
	"github.com/campushq/edge-auth/internal/security"
	"github.com/campushq/edge-auth/internal/service"
	"github.com/campushq/edge-auth/internal/signals"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

var RuntimeInfraSet = wire.NewSet(provideDB, database.NewRedis, provideRedisUniversal)

var RepositorySet = wire.NewSet(repository.NewSessionRepository, repository.NewUserRepository)

var SecuritySet = wire.NewSet(provideSealer, provideCookieManager)

var ServiceSet = wire.NewSet(
	provideActivityStore,
	provideAttemptCounter,
	provideRiskEngine,
	provideSignalExtractor,
	provideSessionService,
	providePasswordVerifier,
)

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	provideTenantRouter,
	provideLoginRateLimiter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.Env, cfg.LogLevel)
}

func provideDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisUniversal(client *redis.Client) redis.UniversalClient {
	return client
}

func provideSealer(cfg *config.Config) (*security.Sealer, error) {
	return security.NewSealer(cfg.SessionSecrets)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(
		cfg.SessionCookieName,
		cfg.SharedCookieDomain(),
		cfg.CookieSecure,
		cfg.CookieSameSite,
	)
}

func provideActivityStore(client redis.UniversalClient) service.LoginActivityStore {
	return service.NewRedisLoginActivityStore(client, "activity")
}

func provideAttemptCounter(cfg *config.Config, client redis.UniversalClient) service.LoginAttemptCounter {
	return service.NewRedisLoginAttemptCounter(client, "login_attempts", cfg.LoginAttemptWindow)
}

func provideRiskEngine(activity service.LoginActivityStore) *risk.Engine {
	return risk.NewEngine(activity)
}

func provideSignalExtractor() *signals.Extractor {
	return signals.NewExtractor(geo.NewLocalResolver())
}

func provideSessionService(
	sessions repository.SessionRepository,
	activity service.LoginActivityStore,
	attempts service.LoginAttemptCounter,
	engine *risk.Engine,
	extractor *signals.Extractor,
	sealer *security.Sealer,
	cookies *security.CookieManager,
	cfg *config.Config,
) service.SessionServiceInterface {
	return service.NewSessionService(sessions, activity, attempts, engine, extractor, sealer, cookies, cfg.SessionTTL)
}

// providePasswordVerifier is the seam for the application tier's credential
// check. The default rejects everything so a misconfigured deployment fails
// closed instead of accepting any password.
func providePasswordVerifier(logger *slog.Logger) service.PasswordVerifier {
	return service.PasswordVerifierFunc(func(ctx context.Context, userID uint, password string) (bool, error) {
		logger.WarnContext(ctx, "password verifier not configured, rejecting login", "user_id", userID)
		return false, nil
	})
}

func provideAuthHandler(
	sessionSvc service.SessionServiceInterface,
	users repository.UserRepository,
	passwords service.PasswordVerifier,
	attempts service.LoginAttemptCounter,
	cfg *config.Config,
) *handler.AuthHandler {
	return handler.NewAuthHandler(sessionSvc, users, passwords, attempts, cfg.SessionCookieName)
}

func provideTenantRouter(cfg *config.Config) (*middleware.TenantRouter, error) {
	return middleware.NewTenantRouter(middleware.TenantRouterConfig{
		RootDomain:     cfg.RootDomain,
		Scheme:         cfg.Scheme(),
		CookieName:     cfg.SessionCookieName,
		StaticPrefixes: cfg.StaticAssetPrefixes,
		AuthRoutes:     cfg.AuthRoutePrefixes,
	})
}

func provideLoginRateLimiter(cfg *config.Config, client redis.UniversalClient) *middleware.RateLimiter {
	limiter := middleware.NewRedisFixedWindowLimiter(client, "ratelimit")
	return middleware.NewRateLimiter(limiter, cfg.LoginRateLimitPerMin, time.Minute, middleware.FailClosed, "login")
}

func provideHTTPServer(
	cfg *config.Config,
	logger *slog.Logger,
	auth *handler.AuthHandler,
	tenant *middleware.TenantRouter,
	loginLimit *middleware.RateLimiter,
	db *gorm.DB,
	rdb *redis.Client,
) *http.Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(req.Context()) != nil {
			response.Error(w, req, http.StatusServiceUnavailable, "NOT_READY", "database unavailable", nil)
			return
		}
		if err := rdb.Ping(req.Context()).Err(); err != nil {
			response.Error(w, req, http.StatusServiceUnavailable, "NOT_READY", "redis unavailable", nil)
			return
		}
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimit.Middleware()).Post("/login", auth.Login)
		r.Get("/session", auth.Session)
		r.Post("/logout", auth.Logout)
	})

	// Everything outside the auth API flows through host-based routing.
	r.NotFound(tenant.Handler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, req, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})).ServeHTTP)

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
