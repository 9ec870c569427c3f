package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/enkelfaktura/faktura-api/internal/application/auth"
	"github.com/enkelfaktura/faktura-api/internal/application/billing"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/brreg"
	infraehf "github.com/enkelfaktura/faktura-api/internal/infrastructure/ehf"
	infrapdf "github.com/enkelfaktura/faktura-api/internal/infrastructure/pdf"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/postgres"
	httpRouter "github.com/enkelfaktura/faktura-api/internal/interfaces/http"
	"github.com/enkelfaktura/faktura-api/pkg/config"
	"github.com/enkelfaktura/faktura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	partyUC := billing.NewPartyUseCase(partyRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, partyRepo, invoiceRepo)

	// Document generation: Peppol BIS Billing 3.0 XML and paginated PDF.
	ehfBuilder := infraehf.NewBuilderService()
	pdfGenerator := infrapdf.NewGenerator(infrapdf.DefaultLabels())
	documentUC := billing.NewDocumentUseCase(invoiceRepo, partyRepo, ehfBuilder, pdfGenerator)

	registry := brreg.NewClient(cfg.Brreg.BaseURL)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI locally: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Faktura API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		PartyUC:    partyUC,
		InvoiceUC:  invoiceUC,
		DocumentUC: documentUC,
		Registry:   registry,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
