package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"products/internal/config"
	"products/internal/handlers"
	"products/internal/middleware"
	"products/internal/models"
	"products/internal/repositories"
	"products/internal/services"
	"products/pkg/rabbitmq"
	"products/pkg/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// application is the assembled HTTP app plus the resources it must release.
type application struct {
	fiber   *fiber.App
	service *services.ProductService
	closers []func(context.Context) error
}

// newApplication wires configuration, storage, events, telemetry and routes.
// On error every resource opened so far is released.
func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *application, err error) {
	a := &application{}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.close(context.Background()))
		}
	}()

	// --- Telemetry ---
	tel, err := telemetry.New(ctx, telemetry.Config{
		ServiceName:  cfg.Telemetry.ServiceName,
		Environment:  cfg.App.Env,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.closers = append(a.closers, tel.Shutdown)

	// --- Repository ---
	productRepo, closeRepo, err := openProductRepository(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRepo)

	// --- Services ---
	opts := []services.Option{
		services.WithLogger(log),
		services.WithTracerProvider(tel.TracerProvider),
		services.WithMeterProvider(tel.MeterProvider),
	}
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return mqClient.Close() })
		opts = append(opts, services.WithPublisher(mqClient))
	} else {
		log.Info().Msg("RABBITMQ_URL not set, product events are disabled")
	}
	a.service = services.NewProductService(productRepo, opts...)

	if cfg.App.SeedDemoData {
		seedProducts(ctx, a.service, log)
	}

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		AppName:               cfg.Telemetry.ServiceName,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if cfg.RabbitMQ.URL != "" {
			events = "enabled"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.Store.Driver,
			"events": events,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(tel.MetricsHandler))

	var guard fiber.Handler
	if cfg.Auth.JWTSecret != "" {
		guard = middleware.AuthRequired([]byte(cfg.Auth.JWTSecret), log)
	} else {
		log.Warn().Msg("JWT_SECRET not set, product write routes are unauthenticated")
	}
	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(a.service, log).RegisterRoutes(apiV1, guard)

	a.fiber = app
	return a, nil
}

// close releases resources in reverse order of acquisition.
func (a *application) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// openProductRepository builds the repository selected by the store driver.
func openProductRepository(ctx context.Context, cfg config.StoreConfig) (repositories.ProductRepository, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		return repositories.NewMemoryProductRepository(), noop, nil

	case config.DriverSQLite, config.DriverPostgres:
		dialector := sqlite.Open(cfg.DSN)
		if cfg.Driver == config.DriverPostgres {
			dialector = postgres.Open(cfg.DSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		repo := repositories.NewGORMProductRepository(db)
		if err := repo.Migrate(); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return repo, func(context.Context) error { return sqlDB.Close() }, nil

	case config.DriverPgx:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		repo := repositories.NewPgxProductRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, func(context.Context) error { pool.Close(); return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// seedProducts adds a few demo products through the service.
func seedProducts(ctx context.Context, service *services.ProductService, log zerolog.Logger) {
	products := []models.Product{
		models.NewProduct(1, "Laptop", "High performance laptop", 1200.00, 10),
		models.NewProduct(2, "Keyboard", "Mechanical keyboard", 75.00, 25),
		models.NewProduct(3, "Mouse", "Ergonomic wireless mouse", 25.00, 50),
	}

	for _, p := range products {
		if err := service.AddProduct(ctx, models.RecordOf(p)); err != nil {
			log.Warn().Err(err).Str("name", p.Name).Msg("Error seeding product")
			continue
		}
		log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("Seeded product")
	}
}
