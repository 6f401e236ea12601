package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/czarkazmx1x/stagifyai-saas/config"
	"github.com/czarkazmx1x/stagifyai-saas/database"
	genclient "github.com/czarkazmx1x/stagifyai-saas/integrations/staging"
	"github.com/czarkazmx1x/stagifyai-saas/logger"
	"github.com/czarkazmx1x/stagifyai-saas/routes"
	stagingsvc "github.com/czarkazmx1x/stagifyai-saas/services/staging"
	"github.com/czarkazmx1x/stagifyai-saas/storage"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("pas de .env trouvé")
	}

	cfg := config.LoadConfig()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("échec initialisation logger:", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("échec connexion base de données", zap.Error(err))
	}

	// Backend de stockage objet choisi à la composition.
	var store storage.ObjectStorage
	var localStore *storage.LocalStore
	switch cfg.StorageBackend {
	case "s3":
		s3Store, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			zlog.Fatal("échec initialisation S3", zap.Error(err))
		}
		store = s3Store
	default:
		localStore = storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		store = localStore
	}

	// Client de génération injecté explicitement : mock ou fournisseur HTTP.
	var generator genclient.Generator
	if cfg.StagingProvider == "mock" {
		generator = &genclient.MockGenerator{}
		zlog.Warn("générateur mock actif, aucune image réelle ne sera produite")
	} else {
		client, err := genclient.NewClient(cfg.StagingAPIKey, cfg.StagingAPIBase)
		if err != nil {
			zlog.Fatal("échec initialisation du client de génération", zap.Error(err))
		}
		generator = client
	}

	directory := tenancy.NewDirectory(db)
	meter := tenancy.NewMeter(db, tenancy.DefaultPlanLimits())
	gate := tenancy.NewGate(directory, meter)
	svc := stagingsvc.NewService(db, generator, meter, zlog)

	app := fiber.New(fiber.Config{
		AppName:   "stagifyai-api",
		BodyLimit: 20 << 20,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "stagifyai-api",
			"env":     cfg.Env,
		})
	})

	routes.SetupAuthRoutes(app, routes.NewAuthHandler(db, cfg, gate))
	routes.SetupProjectRoutes(app, cfg, gate, routes.NewProjectsHandler(db, store, svc, meter))
	routes.SetupTenantRoutes(app, cfg, gate, routes.NewTenantsHandler(db))
	routes.SetupUsageRoutes(app, cfg, gate, routes.NewUsageHandler(meter))

	if localStore != nil {
		app.Static("/uploads", localStore.Dir())
	}
	app.Static("/", "./public")

	go func() {
		zlog.Info("API StagifyAI en écoute", zap.String("addr", cfg.HTTPAddr()))
		if err := app.Listen(cfg.HTTPAddr()); err != nil {
			zlog.Error("serveur arrêté", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("arrêt du serveur StagifyAI...")

	if err := app.Shutdown(); err != nil {
		zlog.Error("arrêt forcé", zap.Error(err))
	}
}
