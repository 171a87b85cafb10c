package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldline/lead-relay/internal/config"
	"github.com/fieldline/lead-relay/internal/infra/database"
	"github.com/fieldline/lead-relay/internal/infra/http/handlers"
	"github.com/fieldline/lead-relay/internal/infra/http/middleware"
	"github.com/fieldline/lead-relay/internal/infra/integration/books"
	"github.com/fieldline/lead-relay/internal/infra/mail"
	"github.com/fieldline/lead-relay/internal/infra/queue"
	"github.com/fieldline/lead-relay/internal/infra/recordstore"
	"github.com/fieldline/lead-relay/internal/infra/worker"
	"github.com/fieldline/lead-relay/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Record store client + repositories
	store, err := recordstore.NewClient(cfg.StoreAPIKey, cfg.StoreBaseID, cfg.StoreBaseURL)
	if err != nil {
		log.Fatal(err)
	}
	leadRepo := recordstore.NewLeadRepository(store)
	summaryRepo := recordstore.NewSummaryRepository(store)
	tokenRepo := recordstore.NewTokenRepository(store)
	reviewRepo := database.NewReviewRepository(db)

	// 2. Integrations and adapters
	booksClient, err := books.NewClient(books.Config{
		ClientID:     cfg.BooksClientID,
		ClientSecret: cfg.BooksClientSecret,
		RedirectURL:  cfg.BooksRedirectURL,
		BaseURL:      cfg.BooksBaseURL,
		AuthURL:      cfg.BooksAuthURL,
		TokenURL:     cfg.BooksTokenURL,
	}, tokenRepo)
	if err != nil {
		log.Fatal(err)
	}
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	var mailSender *mail.EmailSender
	if cfg.AlertTo != "" {
		mailSender = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.AlertFrom, cfg.AlertTo)
	}

	// 3. Workers
	reviewWorker := queue.NewWorker(rabbitMQ.Ch, reviewRepo, queueMailer(mailSender))
	go reviewWorker.Start(queue.QueueName)

	// 4. Use cases
	rollupUC := usecase.NewRollupUseCase(summaryRepo)
	processPaymentUC := usecase.NewProcessPaymentUseCase(leadRepo, rollupUC, producer, cfg.MatchThreshold)
	intakeLeadUC := usecase.NewIntakeLeadUseCase(leadRepo)
	refreshUC := usecase.NewRefreshAdSpendUseCase(booksClient, rollupUC)

	adSpendWorker := worker.NewAdSpendWorker(refreshUC)
	go adSpendWorker.Start(context.Background())

	// 5. Handlers
	webhookHandler := handlers.NewWebhookHandler(processPaymentUC, cfg.WebhookSecret)
	leadHandler := handlers.NewLeadHandler(intakeLeadUC)
	adSpendHandler := handlers.NewAdSpendHandler(refreshUC)
	oauthHandler := handlers.NewOAuthHandler(booksClient)
	reviewHandler := handlers.NewReviewHandler(reviewRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/webhook/payment", webhookHandler.Handle)
	r.Post("/webhook/lead", leadHandler.CaptureLead)
	r.Post("/adspend/refresh", adSpendHandler.HandleRefresh)
	r.Get("/oauth/connect", oauthHandler.HandleConnect)
	r.Get("/oauth/callback", oauthHandler.HandleCallback)
	r.Get("/reviews", reviewHandler.HandleList)
	r.Post("/reviews/{id}/resolve", reviewHandler.HandleResolve)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	log.Printf("🔥 Lead relay listening on %s", addr)
	http.ListenAndServe(addr, r)
}

// queueMailer keeps the worker's mailer nil when alerts are not
// configured (a typed nil pointer would defeat its nil check).
func queueMailer(sender *mail.EmailSender) queue.AlertMailer {
	if sender == nil {
		return nil
	}
	return sender
}
