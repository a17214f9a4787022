package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinelist/config"
	"cinelist/handlers"
	"cinelist/internal/database"
	"cinelist/internal/logging"
	"cinelist/services/users"
	"cinelist/services/watchlist"
	"cinelist/utils"
)

func main() {
	configPath := flag.String("config", "data/settings.json", "path to the settings file")
	flag.Parse()

	configManager := config.NewManager(*configPath)
	settings, err := configManager.Load()
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(settings.LogFile)

	db, err := database.NewDB(database.Config{DatabasePath: settings.DatabasePath})
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	usersService := users.NewService(db.Users)
	watchlistService := watchlist.NewService(db.Watchlists)

	tokenTTL := time.Duration(settings.TokenTTLHours) * time.Hour
	authHandler := handlers.NewAuthHandler(usersService, settings.SessionSecret, tokenTTL)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)

	router := utils.NewRouter()

	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	authed := router.NewRoute().Subrouter()
	authed.Use(handlers.RequireAuth(settings.SessionSecret))
	authed.HandleFunc("/auth/checkauth", authHandler.CheckAuth).Methods(http.MethodGet)
	watchlistHandler.Register(authed)

	server := &http.Server{
		Addr:         settings.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", settings.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
