package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/StudioJuno/interactive-quote-magic/internal/config"
	"github.com/StudioJuno/interactive-quote-magic/internal/database"
	"github.com/StudioJuno/interactive-quote-magic/internal/handler"
	"github.com/StudioJuno/interactive-quote-magic/internal/pennylane"
	"github.com/StudioJuno/interactive-quote-magic/internal/pricing"
	"github.com/StudioJuno/interactive-quote-magic/internal/queue"
	"github.com/StudioJuno/interactive-quote-magic/internal/repository"
	"github.com/StudioJuno/interactive-quote-magic/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis unavailable: wizard sessions cannot be stored")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql unavailable: %v", err)
	}

	sessions := repository.NewSessionRepo(rdb, cfg.SessionTTL)
	quotes := repository.NewQuoteRepo(db)
	submitter := pennylane.NewClient(cfg.QuoteBaseURL, cfg.QuoteAPIKey, nil)

	w := handler.NewWizardHandler(cfg, sessions, quotes, submitter, pricing.DefaultTable())

	e := echo.New()
	router.RegisterRoutes(e, w, rdb)
	router.RegisterWizard(e, w, cfg.SessionSecret, rdb)

	// Background consumer that appends submitted quotes to logs/quotes.log.
	go func() {
		if err := queue.StartQuoteConsumer(); err != nil {
			log.Printf("quote consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
