package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/fingemini/internal/advice"
	"github.com/dvloznov/fingemini/internal/api/handlers"
	"github.com/dvloznov/fingemini/internal/api/middleware"
	"github.com/dvloznov/fingemini/internal/cache"
	"github.com/dvloznov/fingemini/internal/config"
	"github.com/dvloznov/fingemini/internal/ledger"
	"github.com/dvloznov/fingemini/internal/logger"
	"github.com/dvloznov/fingemini/internal/mirror"
	"github.com/dvloznov/fingemini/internal/syncer"
)

func main() {
	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Flags override the environment
	var (
		port   = flag.String("port", cfg.Port, "HTTP server port")
		dbPath = flag.String("db", cfg.DBPath, "SQLite file for the local ledger cache")
		bucket = flag.String("bucket", cfg.Bucket, "GCS bucket for the remote mirror (or set GCS_BUCKET env)")
	)
	flag.Parse()

	ctx := context.Background()

	// Local cache: always available, the durability guarantee of record.
	store, err := cache.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Failed to open local cache")
	}

	// Remote mirror: optional. Without a bucket the engine runs local-only.
	var remote mirror.Mirror
	if *bucket != "" {
		gcsMirror, err := mirror.NewGCSMirror(ctx, *bucket)
		if err != nil {
			log.Warn().Err(err).Msg("Remote mirror unavailable - continuing local-only")
		} else {
			defer gcsMirror.Close()
			remote = gcsMirror
		}
	} else {
		log.Warn().Msg("No GCS bucket configured - remote mirroring disabled")
	}

	coord := syncer.New(store, remote, log)
	if cfg.DebounceMillis > 0 {
		coord.SetDebounce(time.Duration(cfg.DebounceMillis) * time.Millisecond)
	}
	ledgerStore := ledger.NewStore()
	sessions := handlers.NewSessionState()
	advisor := advice.NewGeminiAdvisor(cfg.GeminiModel)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(ledgerStore, coord, sessions, log)
	accountsHandler := handlers.NewAccountsHandler(ledgerStore, coord, sessions, log)
	transactionsHandler := handlers.NewTransactionsHandler(ledgerStore, coord, sessions, log)
	categoriesHandler := handlers.NewCategoriesHandler(ledgerStore, log)
	reportsHandler := handlers.NewReportsHandler(ledgerStore, log)
	adviceHandler := handlers.NewAdviceHandler(ledgerStore, advisor, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			sessionHandler.Login(w, r)
		case http.MethodDelete:
			sessionHandler.Logout(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			accountsHandler.List(w, r)
		case http.MethodPost:
			accountsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		accountID := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
		if accountID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Account ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			accountsHandler.Update(w, r, accountID)
		case http.MethodDelete:
			accountsHandler.Delete(w, r, accountID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		txID := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if txID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		if r.Method == http.MethodDelete {
			transactionsHandler.Delete(w, r, txID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			categoriesHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.Summary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/reports", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.Breakdown(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/advice", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			adviceHandler.Get(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware. RequestID runs upstream of Logger so the access log
	// carries the request identity.
	handler := middleware.Recovery(log)(
		middleware.RequestID(log)(
			middleware.Logger(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting ledger API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Persist any pending ledger changes before exit
	if err := coord.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error flushing pending saves")
	}

	log.Info().Msg("Server exited")
}
