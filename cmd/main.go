package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-app-reviews/docs"
	"github.com/sbilibin2017/gw-app-reviews/internal/facades"
	"github.com/sbilibin2017/gw-app-reviews/internal/handlers"
	"github.com/sbilibin2017/gw-app-reviews/internal/jwt"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/middlewares"
	"github.com/sbilibin2017/gw-app-reviews/internal/repositories"
	"github.com/sbilibin2017/gw-app-reviews/internal/services"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const serviceName = "gw-app-reviews"

// insecureSecretKey is used only when no signing key is configured.
const insecureSecretKey = "supersecretkey"

// config holds everything parsed from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	DBDriver       string
	DBDSN          string
	DBMaxOpenConns int
	DBMaxIdleConns int

	ITunesBaseURL string
	ITunesTimeout time.Duration

	JWTSecretKey string
	JWTExp       time.Duration

	AdminUsernames []string

	KafkaBrokers      []string
	KafkaReviewsTopic string
}

// @title gw-app-reviews API
// @version 1.0.0
// @description Service for searching the app catalog and reviewing its entries
// @host localhost:8000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// the application, database, upstream, JWT, admin and Kafka configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	getList := func(key string) []string {
		var out []string
		for _, v := range strings.Split(getEnv(key, ""), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8000")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	// Database config
	cfg.DBDriver = getEnv("DATABASE_DRIVER", repositories.DriverSQLite)
	cfg.DBDSN = getEnv("DATABASE_DSN", "appdata.db")
	if cfg.DBMaxOpenConns, err = strconv.Atoi(getEnv("DATABASE_MAX_OPEN_CONNS", "8")); err != nil {
		return
	}
	if cfg.DBMaxIdleConns, err = strconv.Atoi(getEnv("DATABASE_MAX_IDLE_CONNS", "4")); err != nil {
		return
	}

	// Upstream catalog config
	cfg.ITunesBaseURL = getEnv("ITUNES_BASE_URL", facades.DefaultBaseURL)
	timeoutSecond, err := strconv.Atoi(getEnv("ITUNES_TIMEOUT_SECOND", "10"))
	if err != nil {
		return
	}
	cfg.ITunesTimeout = time.Duration(timeoutSecond) * time.Second

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", getEnv("SECRET_KEY", ""))
	expSecond, err := strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600"))
	if err != nil {
		return
	}
	cfg.JWTExp = time.Duration(expSecond) * time.Second

	// Admin config
	cfg.AdminUsernames = getList("ADMIN_USERNAMES")

	// Kafka config
	cfg.KafkaBrokers = getList("KAFKA_BROKERS")
	cfg.KafkaReviewsTopic = getEnv("KAFKA_REVIEWS_TOPIC", "reviews")

	return
}

// run initializes the logger, database, Kafka writer and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, serviceName); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	if cfg.JWTSecretKey == "" {
		logger.Log.Warn("JWT_SECRET_KEY is not set, falling back to an insecure built-in key")
		cfg.JWTSecretKey = insecureSecretKey
	}

	// Connect to the database
	logger.Log.Infow("Connecting to database", "driver", cfg.DBDriver)
	db, err := repositories.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.Migrate(ctx, db); err != nil {
		return err
	}

	// Connect to Kafka
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaReviewsTopic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("Kafka writer configured", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReviewsTopic)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           newRouter(db, cfg, kafkaWriter, reg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// newRouter wires repositories, services and handlers into the HTTP routes.
func newRouter(db *sqlx.DB, cfg config, kafkaWriter services.KafkaWriter, reg *prometheus.Registry) http.Handler {
	// Initialize JWT service
	jwt := jwt.New(cfg.JWTSecretKey, cfg.JWTExp)

	// Initialize upstream catalog client
	catalogSearch := facades.NewCatalogSearchFacade(nil, cfg.ITunesBaseURL, cfg.ITunesTimeout)

	// Initialize repositories
	txGetter := middlewares.GetTxFromContext

	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	catalogReadRepo := repositories.NewCatalogReadRepository(db)
	catalogWriteRepo := repositories.NewCatalogWriteRepository(db, txGetter)
	reviewReadRepo := repositories.NewReviewReadRepository(db)
	reviewWriteRepo := repositories.NewReviewWriteRepository(db, txGetter)
	eraseRepo := repositories.NewEraseRepository(db, txGetter)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwt)
	reviewService := services.NewReviewService(catalogWriteRepo, catalogReadRepo, reviewWriteRepo, reviewReadRepo, kafkaWriter)
	adminService := services.NewAdminService(eraseRepo, catalogReadRepo, reviewReadRepo, userReadRepo, cfg.AdminUsernames)

	// Initialize middlewares
	metrics := middlewares.NewMetrics(reg)
	authMiddleware := middlewares.AuthMiddleware(jwt)
	adminMiddleware := middlewares.AdminMiddleware(adminService)
	txMiddleware := middlewares.TxMiddleware(db)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(metrics.Middleware)
	r.Use(cors.AllowAll().Handler)

	// Public routes
	r.Get("/", handlers.NewRootHandler())
	r.Get("/search", handlers.NewSearchHandler(catalogSearch))
	r.Get("/reviews/{trackId}", handlers.NewListReviewsHandler(reviewService))
	r.Get("/items/{trackId}", handlers.NewGetItemHandler(reviewService))
	r.Post("/register", handlers.NewRegisterHandler(authService))
	r.Post("/login", handlers.NewLoginHandler(authService))
	r.Post("/logout", handlers.NewLogoutHandler())

	// Protected routes with JWT middleware
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(txMiddleware).Post("/reviews", handlers.NewCreateReviewHandler(reviewService))

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.With(txMiddleware).Post("/erase_all", handlers.NewEraseAllHandler(adminService))
			r.Get("/stats", handlers.NewStatsHandler(adminService))
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	return r
}
