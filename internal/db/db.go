package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio-api/internal/config"
	"portfolio-api/internal/repository"
)

const connectTimeout = 10 * time.Second

// OpenRepository connects to the configured store and prepares it for use
func OpenRepository(ctx context.Context, cfg config.DatabaseConfig) (repository.ContactRepository, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverMySQL, config.DriverPostgres:
		return openGorm(cfg)
	case config.DriverMemory:
		logrus.Warn("Using in-memory contact store, data is lost on restart")
		return repository.NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig) (repository.ContactRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := repository.NewMongoRepository(client, cfg.Name, cfg.Collection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"database":   cfg.Name,
		"collection": cfg.Collection,
	}).Info("Database initialized successfully")
	return repo, nil
}

func openGorm(cfg config.DatabaseConfig) (repository.ContactRepository, error) {
	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	if cfg.Driver == config.DriverPostgres {
		dialector = postgres.Open(cfg.DSN)
	} else {
		dialector = mysql.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	repo := repository.NewGormRepository(db)

	logrus.Info("Running database migrations...")
	if err := repo.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logrus.Info("Database migrations completed")

	logrus.WithField("driver", cfg.Driver).Info("Database initialized successfully")
	return repo, nil
}
