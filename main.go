package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tripatlas/api-go/config"
	"github.com/tripatlas/api-go/mapview"
	"github.com/tripatlas/api-go/routes"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, relying on environment")
	}

	// Initialize database
	db := config.InitDB()

	// One store owns every live map session
	store := mapview.NewStore()

	// Create a new Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize routes
	routes.SetupRoutes(r, db, store)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Starting server")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}
