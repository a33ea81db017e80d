package server

import (
	"fmt"
	"time"
	"vistoria/config"
	"vistoria/internal/app"
	"vistoria/internal/handlers"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/helmet/v2"
)

// BODY_LIMIT leaves headroom over the 10MB photo limit for multipart framing.
const BODY_LIMIT = 12 * 1024 * 1024

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server")

	fiberConfig := fiber.Config{
		ServerHeader:            fmt.Sprintf("VistoriaAPI/%s", app.Config.GeneralVersion),
		AppName:                 "vistoria_api",
		BodyLimit:               BODY_LIMIT,
		ReadBufferSize:          16384,
		WriteBufferSize:         16384,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             30 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             120 * time.Second,
		DisableStartupMessage:   true,
	}

	if app.Config.IsDevelopment() {
		log.Info("Enabling development mode")
		fiberConfig.DisableStartupMessage = false
		fiberConfig.EnablePrintRoutes = true
	}

	server := fiber.New(fiberConfig)

	server.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.CorsAllowOrigins,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Trace-ID",
		AllowCredentials: app.Config.CorsAllowOrigins != "*",
		MaxAge:           300,
		ExposeHeaders:    "X-Trace-ID",
	}))

	server.Use(app.Middleware.TraceID())
	server.Use(fiberLogs.New(fiberLogs.Config{
		Format: "${time} ${status} ${method} ${path} ${latency} trace=${respHeader:X-Trace-ID}\n",
	}))
	server.Use(compress.New())

	server.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	if app.Config.StorageType != config.StorageGitHub {
		server.Static(app.Config.UploadURLPrefix, app.Config.UploadDir, fiber.Static{
			MaxAge: int((24 * time.Hour).Seconds()),
		})
	}

	if err := handlers.Router(server, app); err != nil {
		return &AppServer{}, log.Err("failed to initialize handlers", err)
	}

	return &AppServer{
		FiberApp: server,
		log:      log,
	}, nil
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port == 0 {
		return log.Error(
			"Fatal error: invalid port",
			"port", port,
		)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
