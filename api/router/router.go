package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"

	"review-desk/api/handlers"
	"review-desk/api/middleware"
	"review-desk/db"
	_ "review-desk/docs"
	"review-desk/services"
)

func New(svc *services.SubmissionService) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestTrace())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if db.Database() == nil {
			// Local-file store mode; nothing remote to ping.
			c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "local"})
			return
		}
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/submissions", handlers.SubmitHandler(svc))
		api.GET("/submissions", handlers.ListSubmissionsHandler(svc))
		api.GET("/submissions/stats", handlers.StatsHandler(svc))
		api.GET("/submissions/:id", handlers.GetSubmissionHandler(svc))
		api.POST("/submissions/:id/rerun", handlers.RerunSubmissionHandler(svc))
	}

	return r
}
