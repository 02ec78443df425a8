package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/SheepYY039/snipeit-netbox/core/config"
	"github.com/SheepYY039/snipeit-netbox/core/database"
	"github.com/SheepYY039/snipeit-netbox/core/logger"
	"github.com/SheepYY039/snipeit-netbox/core/middleware/auth"
	"github.com/SheepYY039/snipeit-netbox/core/middleware/rayid"
	"github.com/SheepYY039/snipeit-netbox/core/storage"
	"github.com/SheepYY039/snipeit-netbox/feature/journal"
	"github.com/SheepYY039/snipeit-netbox/feature/report"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve archived reports and the run journal",
	Long:  `Starts the HTTP server exposing archived sync reports and past runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Storage (required, it holds the reports)
		if !cfg.Storage.Enabled() {
			logg.Fatal("Report server needs a configured storage endpoint")
		}
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		archiver := report.NewArchiver(store, cfg.Storage.Bucket, logg)

		// 4. Connect to Database (Optional)
		var recorder *journal.Recorder
		if cfg.Database.Enabled() {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional journal database connection failed", zap.Error(err))
			} else if recorder, err = journal.NewRecorder(db); err != nil {
				logg.Warn("Journal setup failed", zap.Error(err))
				recorder = nil
			} else {
				logg.Info("Connected to journal database")
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Health endpoint (public)
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Routes
		api := app.Group("/api")
		report.NewHandler(archiver, recorder, logg).RegisterRoutes(api)

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
