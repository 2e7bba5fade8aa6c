package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"todostack/todostack/broker"
	"todostack/todostack/config"
	"todostack/todostack/database"
	"todostack/todostack/middleware"
	"todostack/todostack/routes"
	"todostack/todostack/services"
	"todostack/todostack/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := broker.InitProducer(cfg.NatsURL); err != nil {
		log.Printf("Warning: Failed to connect to NATS: %v", err)
		log.Println("The application will continue, but change events will not be published")
	} else {
		defer broker.CloseProducer()
	}

	uploads, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	todoService := services.NewTodoService(cfg)
	services.TodoServiceInstance = todoService

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Attached images are served back under their stored path.
	router.Static("/uploads/images", cfg.UploadDir)

	api := router.Group("/api/v1")
	routes.RegisterTodoRoutes(api, db, todoService, uploads)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		broker.CloseProducer()
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
