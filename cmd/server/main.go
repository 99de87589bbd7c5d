package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tonzxz/ipophil-dms-sub000/internal/action"
	"github.com/tonzxz/ipophil-dms-sub000/internal/agency"
	"github.com/tonzxz/ipophil-dms-sub000/internal/cache"
	"github.com/tonzxz/ipophil-dms-sub000/internal/config"
	"github.com/tonzxz/ipophil-dms-sub000/internal/dashboard"
	"github.com/tonzxz/ipophil-dms-sub000/internal/db"
	"github.com/tonzxz/ipophil-dms-sub000/internal/document"
	"github.com/tonzxz/ipophil-dms-sub000/internal/mailer"
	"github.com/tonzxz/ipophil-dms-sub000/internal/middleware"
	"github.com/tonzxz/ipophil-dms-sub000/internal/notification"
	"github.com/tonzxz/ipophil-dms-sub000/internal/user"
	"github.com/tonzxz/ipophil-dms-sub000/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// nameResolver resolves catalog and account ids for trail rendering.
type nameResolver struct {
	agencies agency.Service
	actions  action.Service
	users    user.Service
}

func (n *nameResolver) AgencyName(id uint64) string {
	return n.agencies.Name(id)
}

func (n *nameResolver) ActionName(id uint64) string {
	return n.actions.Name(id)
}

func (n *nameResolver) UserName(id uint64) string {
	account, err := n.users.GetUserByID(context.Background(), id)
	if err != nil {
		return "Unknown"
	}
	return account.Name
}

func main() {
	// Load configuration
	config.LoadConfig()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed database with initial data (for development)
	db.SeedData()

	// Initialize Redis-backed cache
	appCache := cache.New(config.AppConfig.RedisAddress)
	defer appCache.Close()

	// Background workers for notification fan-out
	pool := worker.NewPool(config.AppConfig.WorkerCount)
	defer pool.Shutdown()

	// Initialize repositories
	userRepo := user.NewRepository(db.AppDb)
	agencyRepo := agency.NewRepository(db.AppDb)
	actionRepo := action.NewRepository(db.AppDb)
	docRepo := document.NewRepository(db.AppDb)
	notifRepo := notification.NewRepository(db.AppDb)

	// Initialize services
	userService := user.NewService(userRepo)
	agencyService := agency.NewService(agencyRepo)
	actionService := action.NewService(actionRepo)
	notifService := notification.NewService(
		notifRepo,
		userService,
		agencyService,
		mailer.New(config.AppConfig),
		pool,
	)
	names := &nameResolver{agencies: agencyService, actions: actionService, users: userService}
	docService := document.NewService(docRepo, appCache, names, notifService)
	dashService := dashboard.NewService(docRepo, appCache)

	// Initialize handlers
	userHandler := user.NewHandler(userService)
	agencyHandler := agency.NewHandler(agencyService)
	actionHandler := action.NewHandler(actionService)
	docHandler := document.NewHandler(docService)
	dashHandler := dashboard.NewHandler(dashService)
	notifHandler := notification.NewHandler(notifService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	authMiddleware := middleware.Auth{UserService: userService}
	authorized := authMiddleware.AuthMiddleWare()

	// Account routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.DELETE("/logout", authorized, userHandler.Logout)
	router.GET("/profile", authorized, userHandler.GetProfile)

	// Reference catalogs
	router.GET("/agencies", authorized, agencyHandler.List)
	router.GET("/actions", authorized, actionHandler.List)

	// Document lifecycle
	router.POST("/documents", authorized, docHandler.Create)
	router.GET("/documents", authorized, docHandler.List)
	router.GET("/documents/:code", authorized, docHandler.Show)
	router.GET("/documents/:code/trails", authorized, docHandler.ShowTrail)
	router.POST("/documents/:code/release", authorized, docHandler.Release)
	router.POST("/documents/:code/receive", authorized, docHandler.Receive)
	router.POST("/documents/:code/complete", authorized, docHandler.Complete)
	router.POST("/documents/:code/cancel", authorized, docHandler.Cancel)

	// Dashboard
	router.GET("/dashboard/stats", authorized, dashHandler.Stats)

	// Notifications
	router.GET("/notifications", authorized, notifHandler.List)
	router.PUT("/notifications/:id/read", authorized, notifHandler.MarkRead)
	router.PUT("/notifications/read-all", authorized, notifHandler.MarkAllRead)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	<-ctx.Done()
	log.Println("Server shutdown complete")
}
