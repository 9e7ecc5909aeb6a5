package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-showcase-backend/api"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/config"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rpupo63/portfolio-showcase-backend/ratelimit"
	"github.com/rpupo63/portfolio-showcase-backend/services"
	"github.com/rpupo63/portfolio-showcase-backend/session"
	"github.com/rpupo63/portfolio-showcase-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}
	c := config.New()
	setupLogger(c)

	db, err := openDatabase(c)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		zlog.Info().Msg("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		zlog.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	if config.GetBool(c, "MIGRATE", false) {
		zlog.Info().Msg("Running migrations...")
		if err := currentDB.Migrate(context.Background()); err != nil {
			zlog.Fatal().Err(err).Msg("Migration failed")
		}
		zlog.Info().Msg("Migrations complete")
		return
	}

	deps, err := buildDeps(c, currentDB)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error wiring services")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, deps)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	zlog.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(config.GetDuration(c, "SHUTDOWN_TIMEOUT", 30*time.Second))
}

func setupLogger(c config.Config) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "LOG_FORMAT", "console") == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func openDatabase(c config.Config) (*gorm.DB, error) {
	// Build connection string based on DB_TYPE
	var connStr string
	dbType := config.GetString(c, "DB_TYPE", "supa")
	zlog.Info().Str("dbType", dbType).Msg("Connecting to database...")
	switch dbType {
	case "supa":
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
	case "postgres":
		connStr = config.GetString(c, "DATABASE_URL", "")
		if connStr == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for DB_TYPE=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             config.GetDuration(c, "DB_SLOW_THRESHOLD", 2*time.Second),
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  config.GetString(c, "LOG_FORMAT", "console") == "console",
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

// buildDeps wires the auth flow, the optional Redis-backed limiter, object storage and
// email. Storage and email are set only when configured.
func buildDeps(c config.Config, db database.Database) (api.Deps, error) {
	ctx := context.Background()

	var limiterStore ratelimit.Store
	if redisURL := config.GetString(c, "REDIS_URL", ""); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return api.Deps{}, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Warn().Err(err).Msg("redis unreachable, sign-in limits fall back to allowing attempts")
		}
		limiterStore = ratelimit.NewRedisStore(rdb)
		zlog.Info().Msg("sign-in rate limits shared through redis")
	}
	limiter := ratelimit.New(limiterStore,
		ratelimit.WithMaxAttempts(config.GetInt(c, "SIGNIN_MAX_ATTEMPTS", ratelimit.MaxAttempts)),
		ratelimit.WithLockout(config.GetDuration(c, "SIGNIN_LOCKOUT", ratelimit.LockoutDuration)),
		ratelimit.WithWindow(config.GetDuration(c, "SIGNIN_WINDOW", ratelimit.AttemptWindow)),
	)

	provider := auth.NewClient(
		config.GetString(c, "SUPABASE_URL", ""),
		config.GetString(c, "SUPABASE_ANON_KEY", ""),
		nil,
	)
	verifier := auth.NewVerifier(config.GetString(c, "SUPABASE_JWT_SECRET", ""), provider)
	sessions := session.NewController(verifier, db.UserRoleRepo(),
		session.WithRoleCache(1024, config.GetDuration(c, "ROLE_CACHE_TTL", time.Minute)),
	)
	authenticator := auth.NewAuthenticator(provider, limiter, db.ProfileRepo(), db.UserRoleRepo(),
		auth.WithAdminChecker(sessions),
		auth.WithEvents(sessions),
		auth.WithRedirectURL(config.GetString(c, "SIGNUP_REDIRECT_URL", config.GetString(c, "SITE_BASE_URL", ""))),
		auth.WithBootstrapAdmins(config.GetList(c, "BOOTSTRAP_ADMIN_EMAILS")),
	)

	deps := api.Deps{
		Database:      db,
		Authenticator: authenticator,
		Sessions:      sessions,
	}

	if endpoint := config.GetString(c, "STORAGE_ENDPOINT", ""); endpoint != "" {
		client, err := storage.NewS3Client(ctx, storage.Config{
			Endpoint:  endpoint,
			Region:    config.GetString(c, "STORAGE_REGION", ""),
			AccessKey: config.GetString(c, "STORAGE_ACCESS_KEY", ""),
			SecretKey: config.GetString(c, "STORAGE_SECRET_KEY", ""),
		})
		if err != nil {
			return api.Deps{}, err
		}
		bucket := config.GetString(c, "STORAGE_BUCKET", "project-images")
		publicBase := config.GetString(c, "STORAGE_PUBLIC_URL", strings.TrimSuffix(endpoint, "/")+"/"+bucket)
		deps.Storage = storage.NewObjectStore(client, bucket, publicBase)
	} else {
		zlog.Warn().Msg("STORAGE_ENDPOINT not set, uploads are disabled")
	}

	if mailer := services.NewMailer(config.GetString(c, "RESEND_API_KEY", ""), config.GetString(c, "RESEND_FROM_EMAIL", "")); mailer.Configured() {
		deps.Mailer = mailer
	} else {
		zlog.Warn().Msg("RESEND_API_KEY not set, the contact form is disabled")
	}

	return deps, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
