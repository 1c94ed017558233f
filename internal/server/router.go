package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vaultodo/vaultodo-core/internal/admin"
	"github.com/vaultodo/vaultodo-core/internal/auth"
	"github.com/vaultodo/vaultodo-core/internal/tasks"
)

func corsConfig() cors.Config {
	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter builds the full route tree. All state lives in the
// database, so every handler is safe to run concurrently.
func NewRouter() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", auth.SignupHandler)
	authGroup.POST("/signin", auth.SigninHandler)
	authGroup.POST("/forgot-password", auth.ForgotPasswordHandler)

	taskGroup := api.Group("/tasks", auth.RequireAuth())
	taskGroup.GET("", tasks.ListTasksHandler)
	taskGroup.POST("", tasks.CreateTaskHandler)
	taskGroup.PATCH("/:id", tasks.UpdateTaskHandler)
	taskGroup.DELETE("/:id", tasks.DeleteTaskHandler)

	adminGroup := api.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
	adminGroup.GET("/users", admin.ListUsersHandler)
	adminGroup.PATCH("/users/:id/role", admin.UpdateUserRoleHandler)
	adminGroup.DELETE("/users/:id", admin.DeleteUserHandler)
	adminGroup.GET("/tasks", admin.ListAllTasksHandler)
	adminGroup.DELETE("/tasks/:id", admin.DeleteAnyTaskHandler)

	return r
}
