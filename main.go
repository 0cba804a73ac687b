package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

// secretKeys may be supplied as SSM parameter names through <KEY>_SSM_PARAM.
var secretKeys = []string{"JWT_SECRET", "DB_PASSWORD", "RESEND_API_KEY", "TWILIO_AUTH_TOKEN"}

func main() {
	fmt.Println("Initializing app...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)

	if config.NeedsSSM(c, secretKeys...) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		ssmClient, err := config.NewSSMClient(ctx)
		if err != nil {
			cancel()
			log.Fatal().Err(err).Msg("Error creating SSM client")
		}
		if err := config.ResolveSecrets(ctx, c, ssmClient, secretKeys...); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("Error resolving secrets")
		}
		cancel()
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", true) {
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	deps, err := buildDependencies(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing services")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, database.New(db), deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// buildDependencies fails when JWT_SECRET is missing. Mail, SMS and uploads are
// optional and only logged when unconfigured.
func buildDependencies(c map[string]string) (api.Dependencies, error) {
	tokens, err := services.NewTokenService(
		config.GetString(c, "JWT_SECRET", ""),
		config.GetDuration(c, "TOKEN_TTL_HOURS", time.Hour, services.DefaultTokenTTL),
	)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("JWT_SECRET: %w", err)
	}

	passwords, err := services.NewPasswordHasher(config.GetInt(c, "BCRYPT_COST", services.DefaultBcryptCost))
	if err != nil {
		return api.Dependencies{}, err
	}

	mailer := services.NewResendMailer(
		config.GetString(c, "RESEND_API_KEY", ""),
		config.GetString(c, "RESEND_FROM_EMAIL", ""),
	)
	if config.GetString(c, "RESEND_API_KEY", "") == "" {
		log.Warn().Msg("RESEND_API_KEY is not set, contact e-mails will fail")
	}

	var sms services.SMSSender
	if sid := config.GetString(c, "TWILIO_ACCOUNT_SID", ""); sid != "" {
		sms = services.NewTwilioSMS(sid,
			config.GetString(c, "TWILIO_AUTH_TOKEN", ""),
			config.GetString(c, "TWILIO_FROM_NUMBER", ""),
		)
	}

	deps := api.Dependencies{
		Tokens:    tokens,
		Passwords: passwords,
		Contact: services.NewContactRelay(mailer, sms, services.ContactRelayConfig{
			OwnerEmail: config.GetString(c, "CONTACT_TO_EMAIL", ""),
			SMSTo:      config.GetString(c, "CONTACT_SMS_TO", ""),
		}),
	}

	if bucket := config.GetString(c, "S3_BUCKET", ""); bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s3Client, err := services.NewS3Client(ctx)
		if err != nil {
			return api.Dependencies{}, err
		}
		deps.Media = services.NewMediaStore(s3Client, bucket, config.GetString(c, "S3_PUBLIC_BASE_URL", ""))
	} else {
		log.Info().Msg("S3_BUCKET is not set, uploads are disabled")
	}

	return deps, nil
}

func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
