package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketplace/cmd"
	"marketplace/internal/adapters/out/postgres/agentrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/otprepo"
	"marketplace/internal/adapters/out/postgres/payoutrepo"
	"marketplace/internal/adapters/out/postgres/sellerdir"
)

func main() {
	// A missing .env is fine; the environment and defaults cover it.
	_ = godotenv.Load(".env")

	config := cmd.LoadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(config)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err = migrate(gormDB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	var redisClient *redis.Client
	if config.SessionStoreBackend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
	}

	root := cmd.NewCompositionRoot(config, gormDB, redisClient, logger)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e := echo.New()
	root.CreateServer().RegisterRoutes(e)
	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)))
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword,
		config.DBName, config.DBSslMode)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&agentrepo.AgentDTO{},
		&payoutrepo.PayoutDTO{},
		&payoutrepo.BatchDTO{},
		&payoutrepo.BeneficiaryDTO{},
		&otprepo.VerificationDTO{},
		&sellerdir.SellerDTO{},
	)
}
