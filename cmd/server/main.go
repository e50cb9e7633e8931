package main // command entry point: wire dependencies and start the HTTP server

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/customer-contacts-api/internal/config"
	"github.com/iliyamo/customer-contacts-api/internal/database"
	"github.com/iliyamo/customer-contacts-api/internal/handler"
	"github.com/iliyamo/customer-contacts-api/internal/queue"
	"github.com/iliyamo/customer-contacts-api/internal/repository"
	"github.com/iliyamo/customer-contacts-api/internal/router"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	customers := repository.NewCustomerRepo(db)
	contacts := repository.NewContactRepo(db)

	// Redis is optional: nil disables response caching and login
	// throttling without taking the API down.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Audit trail consumer; reconnects on its own if the broker drops.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, cfg, rdb,
		handler.NewAuthHandler(cfg, users),
		handler.NewUserHandler(cfg, users),
		handler.NewCustomerHandler(customers),
		handler.NewContactHandler(contacts, customers),
	)

	log.Printf("starting server on port %s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
