package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"todoapi/internal/config"
	"todoapi/internal/database"
	postgresrepo "todoapi/internal/repository/postgres"
	"todoapi/internal/service"
	"todoapi/internal/transport/http/handlers"
	"todoapi/internal/transport/http/middleware"
	"todoapi/internal/transport/ws"
	"todoapi/pkg/logger"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Database
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error(ctx, "schema migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "connected to database", "host", cfg.DBHost, "db", cfg.DBName)

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	todoRepo := postgresrepo.NewTodoRepo(pool)

	// WebSocket hub for live todo events
	hub := ws.NewHub()
	go hub.Run()

	// Services
	userService := service.NewUserService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	todoService := service.NewTodoService(todoRepo, userRepo, ws.NewHubNotifier(hub))

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	todoHandler := handlers.NewTodoHandler(todoService)

	// Auth middleware
	auth := middleware.Auth([]byte(cfg.JWTSecret))

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /user/signup", userHandler.Signup)
	mux.HandleFunc("POST /user/login", userHandler.Login)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, []byte(cfg.JWTSecret)))

	// Protected - Users
	mux.Handle("PUT /user/{id}", auth(http.HandlerFunc(userHandler.Update)))

	// Protected - Todos
	mux.Handle("GET /todo", auth(http.HandlerFunc(todoHandler.List)))
	mux.Handle("GET /todo/status/{status}", auth(http.HandlerFunc(todoHandler.ListByStatus)))
	mux.Handle("GET /todo/{id}", auth(http.HandlerFunc(todoHandler.Get)))
	mux.Handle("POST /todo", auth(http.HandlerFunc(todoHandler.Create)))
	mux.Handle("POST /todo/all", auth(http.HandlerFunc(todoHandler.CreateAll)))
	mux.Handle("PUT /todo/{id}", auth(http.HandlerFunc(todoHandler.Update)))
	mux.Handle("DELETE /todo/{id}", auth(http.HandlerFunc(todoHandler.Delete)))

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      corsWrapper.Handler(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown error", "error", err)
	}
	logger.Info(ctx, "server stopped")
}
