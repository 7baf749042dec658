package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/example/ride-admin/internal/cache"
	"github.com/example/ride-admin/internal/config"
	"github.com/example/ride-admin/internal/db"
	"github.com/example/ride-admin/internal/handlers"
	"github.com/example/ride-admin/internal/middleware"
	"github.com/example/ride-admin/internal/models"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(&models.User{}, &models.Ride{}, &models.RideEvent{}); err != nil {
		log.Fatal(err)
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}
	denylist := cache.NewDenylist(rdb)

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
		Denylist:  denylist,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	rideH := handlers.NewRideHandler(gdb)
	userH := handlers.NewUserHandler(gdb)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	// protected (JWT)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret, denylist),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)

	// every ride endpoint is admin only, no read-only carve-out
	rides := protected.Group("/rides", middleware.RequireAdmin())
	rides.Get("/", rideH.List)
	rides.Post("/", rideH.Create)
	rides.Get("/statuses", rideH.Statuses)
	rides.Get("/:id", rideH.Get)
	rides.Put("/:id", rideH.Update)
	rides.Patch("/:id", rideH.Update)
	rides.Delete("/:id", rideH.Delete)
	rides.Post("/:id/events", rideH.CreateEvent)

	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.Get("/users", userH.List)
	admin.Patch("/users/:id", userH.Update)
	admin.Delete("/users/:id", userH.Delete)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
