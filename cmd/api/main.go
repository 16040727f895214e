package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/afero"

	"github.com/Maiar0/inventory-web-backend/internal/application/auth"
	"github.com/Maiar0/inventory-web-backend/internal/application/catalog"
	"github.com/Maiar0/inventory-web-backend/internal/application/documents"
	"github.com/Maiar0/inventory-web-backend/internal/application/inventory"
	"github.com/Maiar0/inventory-web-backend/internal/application/usecase"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/metrics"
	infrapdf "github.com/Maiar0/inventory-web-backend/internal/infrastructure/pdf"
	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/postgres"
	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/sqlite"
	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/storage"
	httpRouter "github.com/Maiar0/inventory-web-backend/internal/interfaces/http"
	"github.com/Maiar0/inventory-web-backend/pkg/config"
	"github.com/Maiar0/inventory-web-backend/pkg/logger"
)

// store puertos de persistencia del driver elegido.
type store struct {
	repos repository.TxRepos
	users repository.UserRepository
	tx    repository.TxRunner
	close func()
}

func openStore(ctx context.Context, cfg config.DBConfig) (*store, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{
			repos: sqlite.ReposFor(db.SQL()),
			users: sqlite.NewUserRepository(db),
			tx:    sqlite.NewTxRunner(db),
			close: func() { _ = db.Close() },
		}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &store{
			repos: postgres.ReposFor(pool),
			users: postgres.NewUserRepository(pool),
			tx:    postgres.NewTxRunner(pool),
			close: pool.Close,
		}, nil
	}
	return nil, errors.New("driver de base no soportado: " + cfg.Driver)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStore(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base")
	}
	defer st.close()

	assetStore, err := storage.NewDiskStore(afero.NewOsFs(), cfg.Upload.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de imágenes")
	}

	m := metrics.New()
	maxPerPage := cfg.Inventory.CatalogMaxPerPage

	reader := documents.NewReader(st.repos.Documents, st.tx, log, maxPerPage)
	composer := documents.NewComposer(st.tx, log, m, documents.ComposerOptions{
		AllowNegativeStock: cfg.Inventory.AllowNegativeStock,
	})
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(cfg.Upload.MaxBytes) + 64*1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderIdempotencyKey,
		ExposeHeaders: httpRouter.HeaderReplayed,
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Inventory API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(st.users),
		NavUC:          usecase.NewNavUseCase(st.users),
		ProductUC:      usecase.NewProductUseCase(st.repos.Products, maxPerPage),
		AssetUC:        usecase.NewAssetUseCase(assetStore, cfg.Upload.MaxBytes),
		CatalogUC:      catalog.NewCatalogUseCase(st.repos.Products, st.repos.Movements, maxPerPage),
		LedgerUC:       inventory.NewLedgerUseCase(st.repos.Products, st.repos.Movements, maxPerPage),
		AdjustUC:       inventory.NewAdjustmentUseCase(st.tx, st.repos.Adjustments, log, cfg.Inventory.AllowNegativeStock, maxPerPage),
		Composer:       composer,
		Reader:         reader,
		DocumentPDF:    documents.NewPDFUseCase(reader, st.repos.Products, infrapdf.NewMarotoPDFGenerator(), cfg.App.Name),
		JWTSecret:      cfg.JWT.Secret,
		AppName:        cfg.App.Name,
		HTTPMetrics:    m,
		MetricsHandler: m.Handler(),
		AssetDir:       assetStore.Dir(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
