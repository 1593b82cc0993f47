package main

import (
	"context"
	"fundry/database"
	"fundry/handlers"
	"fundry/middleware"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	r := gin.Default()

	r.GET("/health", handlers.HealthCheck)

	authed := r.Group("/", middleware.AuthRequired(db))
	authed.POST("/projects", handlers.CreateProject(db))
	authed.GET("/projects", handlers.ListProjects(db))
	authed.GET("/projects/:id", handlers.GetProject(db))
	authed.POST("/projects/:id/funding", handlers.AddFunds(db))
	authed.POST("/projects/:id/expenses", handlers.RecordExpense(db))
	authed.GET("/projects/:id/funding", handlers.GetFunding(db))
	authed.GET("/export", handlers.ExportReport(db))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server starting on :" + port)
	r.Run(":" + port)
}
