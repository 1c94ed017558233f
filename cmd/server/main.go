package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vaultodo/vaultodo-core/internal/database"
	"github.com/vaultodo/vaultodo-core/internal/server"
	"github.com/vaultodo/vaultodo-core/internal/tasks"
	"github.com/vaultodo/vaultodo-core/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	if m := os.Getenv("GIN_MODE"); m != "" {
		gin.SetMode(m)
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(&users.User{}, &tasks.Task{}); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	r := server.NewRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("vaultodo server listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
