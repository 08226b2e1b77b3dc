package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/otherscovers/otherscovers/internal/config"
	"github.com/otherscovers/otherscovers/internal/database"
	"github.com/otherscovers/otherscovers/internal/handlers"
	"github.com/otherscovers/otherscovers/internal/repository"
	"github.com/otherscovers/otherscovers/internal/services"
	"github.com/otherscovers/otherscovers/pkg/logger"
	"github.com/otherscovers/otherscovers/pkg/middleware"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	ctx := context.Background()

	// Connect to MongoDB and make sure the indexes the queries rely on exist.
	client, db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Database index error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	loanRepo := repository.NewLoanRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	gameService := services.NewGameService(gameRepo, userRepo, communityRepo)
	bookService := services.NewBookService(userRepo)
	communityService := services.NewCommunityService(communityRepo, userRepo)
	loanService := services.NewLoanService(loanRepo, userRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	gameHandler := handlers.NewGameHandler(gameService)
	bookHandler := handlers.NewBookHandler(bookService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/games/search", gameHandler.SearchGamesHandler).Methods("GET")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedUserRoutes.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")

	// Game lending routes
	protectedGameRoutes := router.PathPrefix("/games").Subrouter()
	protectedGameRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedGameRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedGameRoutes.HandleFunc("", gameHandler.AddGameHandler).Methods("POST")
	protectedGameRoutes.HandleFunc("/lend", gameHandler.LendGameHandler).Methods("POST")
	protectedGameRoutes.HandleFunc("/remove-game/{gameId}", gameHandler.RemoveGameHandler).Methods("DELETE")
	protectedGameRoutes.HandleFunc("/my-library-games", gameHandler.MyLibraryGamesHandler).Methods("GET")
	protectedGameRoutes.HandleFunc("/gamesFromMyCommunities", gameHandler.CommunityGamesHandler).Methods("GET")

	// Book offer routes
	protectedBookRoutes := router.PathPrefix("/books").Subrouter()
	protectedBookRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedBookRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedBookRoutes.HandleFunc("/lend", bookHandler.LendBookHandler).Methods("POST")
	protectedBookRoutes.HandleFunc("/my-library", bookHandler.MyLibraryHandler).Methods("GET")
	protectedBookRoutes.HandleFunc("/delete-offer/{id}", bookHandler.DeleteOfferHandler).Methods("DELETE")

	// Community routes
	protectedCommunityRoutes := router.PathPrefix("/communities").Subrouter()
	protectedCommunityRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedCommunityRoutes.HandleFunc("", communityHandler.CreateCommunityHandler).Methods("POST")
	protectedCommunityRoutes.HandleFunc("", communityHandler.GetCommunitiesHandler).Methods("GET")
	protectedCommunityRoutes.HandleFunc("/mine", communityHandler.GetMyCommunitiesHandler).Methods("GET")
	protectedCommunityRoutes.HandleFunc("/{id}/join", communityHandler.JoinCommunityHandler).Methods("POST")
	protectedCommunityRoutes.HandleFunc("/{id}/leave", communityHandler.LeaveCommunityHandler).Methods("POST")

	// Loan routes
	protectedLoanRoutes := router.PathPrefix("/loans").Subrouter()
	protectedLoanRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedLoanRoutes.HandleFunc("/request", loanHandler.RequestLoanHandler).Methods("POST")
	protectedLoanRoutes.HandleFunc("/requests", loanHandler.GetPendingRequestsHandler).Methods("GET")
	protectedLoanRoutes.HandleFunc("/requests/{id}/respond", loanHandler.RespondToRequestHandler).Methods("POST")
	protectedLoanRoutes.HandleFunc("/{id}/return", loanHandler.ReturnBookHandler).Methods("POST")

	// Static web view; registered last so the API routes win.
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("./web/static/")))

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Log.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Block until a shutdown signal arrives, then drain in-flight requests
	// and close the store connection.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("MongoDB disconnect failed")
	}

	logger.Log.Info("Server stopped")
}
