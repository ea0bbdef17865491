package main

import (
	"log"
	"os"

	"funnel-analytics/database"
	"funnel-analytics/dataset"
	"funnel-analytics/handlers"

	"github.com/gin-gonic/gin"
)

func main() {
	// The store holds the loaded export for the browsing API
	database.InitDB()

	// Preload the dataset; a missing file is reported per request, not fatal
	if _, err := dataset.Load(dataset.File()); err != nil {
		log.Println("⚠️ Dataset not loaded:", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// Static files
	r.Static("/static", "./static")

	// HTML templates
	r.LoadHTMLGlob("templates/*")

	r.GET("/", func(c *gin.Context) {
		c.Redirect(302, "/dashboard")
	})

	// Server-rendered pages
	r.GET("/dashboard", handlers.Dashboard)
	r.GET("/conversions", handlers.Conversions)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/outcome", handlers.GetOutcome)
		api.GET("/conversions", handlers.GetConversions)
		api.GET("/candidates", handlers.GetCandidates)
		api.GET("/stats", handlers.GetStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	log.Println("🚀 Starting Funnel Analytics Server on :" + port)
	log.Println("📊 Dashboard: http://localhost:" + port + "/dashboard")

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
