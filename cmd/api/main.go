package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/Hectotor/Inventory-web-sub000/internal/agency"
	"github.com/Hectotor/Inventory-web-sub000/internal/auth"
	"github.com/Hectotor/Inventory-web-sub000/internal/cart"
	"github.com/Hectotor/Inventory-web-sub000/internal/catalog"
	"github.com/Hectotor/Inventory-web-sub000/internal/common"
	"github.com/Hectotor/Inventory-web-sub000/internal/company"
	"github.com/Hectotor/Inventory-web-sub000/internal/config"
	"github.com/Hectotor/Inventory-web-sub000/internal/db"
	"github.com/Hectotor/Inventory-web-sub000/internal/events"
	"github.com/Hectotor/Inventory-web-sub000/internal/health"
	"github.com/Hectotor/Inventory-web-sub000/internal/obs"
	"github.com/Hectotor/Inventory-web-sub000/internal/order"
	"github.com/Hectotor/Inventory-web-sub000/internal/ratelimit"
	"github.com/Hectotor/Inventory-web-sub000/internal/security"
	"github.com/Hectotor/Inventory-web-sub000/internal/stock"
	"github.com/Hectotor/Inventory-web-sub000/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "logistics")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName: "logistics-api",
			Endpoint:    envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:    envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			Environment: cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if envBool("DB_RUN_MIGRATIONS", true) {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL, "logistics-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	bus := &events.Bus{
		Store:     events.NewPGStore(pool),
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	catalogRepo := catalog.NewRepo(pool)
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{
		Repo:            catalogRepo,
		DefaultPageSize: cfg.DefaultPageSize,
	})

	cartSvc := cart.NewService(cart.NewStore(redisClient, cfg.CartTTL), catalogRepo)
	cartHandler := cart.NewHandler(cart.HandlerConfig{Service: cartSvc})

	userRepo := user.NewRepo(pool)
	provisioner := user.NewProvisioner(cfg.ProvisioningURL, cfg.ProvisioningAPIKey)
	userHandler := user.NewHandler(user.HandlerConfig{
		Repo:            userRepo,
		Provisioner:     provisioner,
		DefaultPageSize: cfg.DefaultPageSize,
	})

	orderSvc := &order.Service{
		Repo:      order.NewRepo(pool),
		Carts:     cartSvc,
		Customers: userRepo,
		Bus:       bus,
	}
	orderHandler := order.NewHandler(order.HandlerConfig{
		Service:         orderSvc,
		DefaultPageSize: cfg.DefaultPageSize,
	})

	stockHandler := stock.NewHandler(stock.HandlerConfig{Repo: stock.NewRepo(pool)})
	agencyHandler := agency.NewHandler(agency.HandlerConfig{Repo: agency.NewRepo(pool)})

	authMiddleware := auth.Middleware{Verifier: auth.Verifier{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
	}}
	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	limiter, err := ratelimit.New(redisClient, cfg.RateLimitPerMinute)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: true}.Middleware)
	r.Use(security.BodyLimit{Max: 1 << 20}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    500 * time.Millisecond,
		RedisTimeout: 300 * time.Millisecond,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	staffOnly := auth.RequireRole(common.RoleAdmin, common.RoleManager)
	adminOnly := auth.RequireRole(common.RoleAdmin)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(authMiddleware.RequireAuth)
		v.Use(company.Middleware)
		v.Use(ratelimit.Middleware(limiter))

		v.Route("/products", func(p chi.Router) {
			p.Get("/", catalogHandler.List)
			p.Get("/{productID}", catalogHandler.Get)
			p.With(staffOnly).Post("/", catalogHandler.Create)
			p.With(staffOnly).Patch("/{productID}", catalogHandler.Update)
		})

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartHandler.Get)
			c.Delete("/", cartHandler.Clear)
			c.With(idem.Middleware).Post("/items", cartHandler.AddItem)
			c.Put("/items/{productID}", cartHandler.SetQuantity)
			c.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		v.Route("/orders", func(o chi.Router) {
			o.With(idem.Middleware).Post("/", orderHandler.Place)
			o.Get("/", orderHandler.List)
			o.With(staffOnly).Get("/stats", orderHandler.Stats)
			o.Get("/{orderID}", orderHandler.Get)
			o.With(staffOnly).Patch("/{orderID}/status", orderHandler.PatchStatus)
		})

		v.Route("/stocks", func(s chi.Router) {
			s.Use(staffOnly)
			s.Get("/", stockHandler.List)
			s.Get("/alerts", stockHandler.Alerts)
			s.Get("/export", stockHandler.Export)
			s.Put("/", stockHandler.Upsert)
		})

		v.Route("/agencies", func(a chi.Router) {
			a.Use(staffOnly)
			a.Get("/", agencyHandler.List)
			a.With(adminOnly).Post("/", agencyHandler.Create)
			a.Get("/{agencyID}", agencyHandler.Get)
			a.Get("/{agencyID}/warehouses", agencyHandler.ListWarehouses)
			a.With(adminOnly).Post("/{agencyID}/warehouses", agencyHandler.CreateWarehouse)
		})

		v.Route("/users", func(u chi.Router) {
			u.Use(staffOnly)
			u.Get("/", userHandler.List)
			u.Post("/", userHandler.Create)
			u.Get("/{userID}", userHandler.Get)
			u.Patch("/{userID}", userHandler.Update)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	<-runCtx.Done()
	health.SetReady(false)
	logger.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}
