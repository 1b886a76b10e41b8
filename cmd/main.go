package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/scholarline/scholarline-gobackend/internal/channels"
	"github.com/scholarline/scholarline-gobackend/internal/config"
	"github.com/scholarline/scholarline-gobackend/internal/db"
	"github.com/scholarline/scholarline-gobackend/internal/handlers"
	"github.com/scholarline/scholarline-gobackend/internal/services"
	"github.com/scholarline/scholarline-gobackend/internal/store"
	"github.com/scholarline/scholarline-gobackend/internal/webhook"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	log.Println("Successfully connected to MongoDB")

	database := client.Database(cfg.DBName)

	paymentStore := store.NewMongoPaymentStore(database)
	if err := paymentStore.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}
	notificationStore := store.NewMongoNotificationStore(database)

	// Channel adapters: in-app is always on, the rest follow configuration.
	adapters := []channels.Channel{channels.NewInApp(notificationStore)}
	if cfg.EmailEnabled() {
		adapters = append(adapters, channels.NewEmail(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom, cfg.AdminEmail))
	}
	if cfg.TelegramEnabled() {
		adapters = append(adapters, channels.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID))
	}

	notifier := services.NewNotifier(notificationStore, adapters...)
	reconciler := services.NewReconciler(paymentStore, webhook.Verifier{}, notifier,
		cfg.StableLinkWebhookSecret, cfg.CoinbaseWebhookSecret)

	var stablelink handlers.ChargeCreator
	if cfg.StableLinkAPIKey != "" {
		stablelink = services.NewStableLinkClient(cfg.StableLinkBaseURL, cfg.StableLinkAPIKey)
	}

	paymentHandler := handlers.NewPaymentHandler(paymentStore, stablelink)
	webhookHandler := handlers.NewWebhookHandler(reconciler)
	notificationHandler := handlers.NewNotificationHandler(notifier, notificationStore)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/payments", paymentHandler.CreatePayment).Methods("POST")
	router.HandleFunc("/payments/stablelink-create", paymentHandler.StableLinkCreate).Methods("POST")
	router.HandleFunc("/payments/user", paymentHandler.ListByUser).Methods("POST")
	router.HandleFunc("/payments/stablelink-webhook", webhookHandler.StableLinkWebhook).Methods("POST")
	router.HandleFunc("/payments/coinbase-webhook", webhookHandler.CoinbaseWebhook).Methods("POST")
	router.HandleFunc("/payments/{id}", paymentHandler.GetPayment).Methods("GET")
	router.HandleFunc("/payments/{id}", paymentHandler.UpdatePayment).Methods("PUT")

	router.HandleFunc("/notifications", notificationHandler.ListNotifications).Methods("GET")
	router.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("POST")

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
