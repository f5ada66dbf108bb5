package main

import (
	"fmt"
	"log"
	"os"
	"spabook-backend/config"
	"spabook-backend/controllers"
	"spabook-backend/models"
	"spabook-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Spa{},
		&models.Service{},
		&models.Staff{},
		&models.Booking{},
		&models.Coupon{},
		&models.Payout{},
		&models.Loyalty{},
		&models.Feedback{},
		&models.NotificationLog{},
	)

	controllers.Init(config.DB, config.LoadPlatform())
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	controllers.Notifier().StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
