package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymroutine/internal/auth"
	"github.com/2beens/gymroutine/internal/config"
	"github.com/2beens/gymroutine/internal/db"
	"github.com/2beens/gymroutine/internal/events"
	"github.com/2beens/gymroutine/internal/middleware"
	"github.com/2beens/gymroutine/internal/misc"
	"github.com/2beens/gymroutine/internal/routines"
	"github.com/2beens/gymroutine/internal/telemetry/metrics"
	"github.com/2beens/gymroutine/internal/telemetry/tracing"
	"github.com/2beens/gymroutine/internal/training"
	"github.com/2beens/gymroutine/internal/training/notify"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	loginChecker    *auth.LoginChecker
	routineStore    *routines.CachedStore
	eventsService   *events.Service
	notifier        *notify.Notifier
	trainingManager *training.Manager

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	reaperCancel context.CancelFunc
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.ApplySchema(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("apply db schema: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymroutine", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymroutine-backend")
	if err != nil {
		return nil, err
	}

	eventsService := events.NewService(events.NewRepo(dbPool))
	notifier, err := notify.NewNotifier(notify.NewNotifierParams{
		RedisClient:    rdb,
		Channel:        cfg.RestExpiredChannel,
		Events:         eventsService,
		MetricsManager: metricsManager,
		Workers:        cfg.NotifyWorkers,
	})
	if err != nil {
		return nil, fmt.Errorf("new notifier: %w", err)
	}

	routineStore := routines.NewCachedStore(
		routines.NewRepo(dbPool),
		cfg.RoutineCacheSizeMB*1024*1024,
		cfg.RoutineCacheExpireSeconds,
	)

	trainingManager := training.NewManager(training.NewManagerParams{
		Store:              routineStore,
		Notifier:           notifier,
		MetricsManager:     metricsManager,
		DefaultRestSeconds: cfg.DefaultRestSeconds,
		WakeInterval:       cfg.TimerWakeInterval(),
		IdleTTL:            cfg.SessionIdleTTL(),
	})

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		loginChecker:    auth.NewLoginChecker(auth.DefaultTTL, rdb),
		routineStore:    routineStore,
		eventsService:   eventsService,
		notifier:        notifier,
		trainingManager: trainingManager,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymroutine-router"))

	miscHandler := misc.NewHandler(s.versionInfo, map[string]misc.HealthCheck{
		"postgres": s.dbPool.Ping,
		"redis": func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		},
	})
	miscHandler.SetupRoutes(r)

	routinesHandler := routines.NewHandler(s.routineStore)
	routinesHandler.SetupRoutes(r.PathPrefix("/routines").Subrouter())

	// timer actions are limited per training session
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	timersRateLimit := middleware.RateLimit(
		reqRateLimiter,
		s.metricsManager,
		"timers",
		s.config.TimerRateLimitAllowedPerMin,
		func(r *http.Request) string {
			return mux.Vars(r)["id"]
		},
	)
	trainingHandler := training.NewHandler(s.trainingManager)
	trainingHandler.SetupRoutes(r.PathPrefix("/training/sessions").Subrouter(), timersRateLimit)

	eventsHandler := events.NewHandler(s.eventsService)
	r.HandleFunc("/events", eventsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-events")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	reaperCtx, reaperCancel := context.WithCancel(ctx)
	s.reaperCancel = reaperCancel
	go s.trainingManager.RunReaper(reaperCtx, s.config.SessionReapInterval())

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the sessions go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.reaperCancel != nil {
		s.reaperCancel()
	}
	s.trainingManager.CloseAll()
	// flushes the pending notifications, needs redis and the db
	s.notifier.Close()
	log.Debugln("training sessions closed, notifications flushed")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}
