package main

import (
	"context"
	"log"
	"net/http"

	"campusresponse/internal/config"
	"campusresponse/internal/db"
	"campusresponse/internal/handlers"
	"campusresponse/internal/middleware"
	"campusresponse/internal/router"
	"campusresponse/internal/services"
	"campusresponse/internal/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize Database
	db.Init(cfg)
	if err := services.SeedAdmin(db.DB, cfg.Seed); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	images, err := services.NewImageStore(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	log.Printf("Incident images stored with %s backend", cfg.Storage.Backend)

	// Initialize Gin
	r := gin.Default()
	r.MaxMultipartMemory = cfg.Storage.UploadMaxBytes

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsRelease(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = views.Load(cfg.TemplatesDir)

	// Static Assets
	r.Static("/static", cfg.StaticDir)
	if opener, ok := images.(handlers.ImageOpener); ok {
		r.GET(cfg.Storage.MediaURL+"/*filepath", handlers.NewMediaHandler(opener).Serve)
	} else {
		r.Static(cfg.Storage.MediaURL, cfg.Storage.MediaDir)
	}

	// Middleware
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, router.Deps{
		Images:         images,
		UploadMaxBytes: cfg.Storage.UploadMaxBytes,
	})

	log.Printf("Campus Response server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
