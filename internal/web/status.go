// Package web exposes a small HTTP status surface next to the bot so
// deployments can probe liveness and see basic row counts. Started only
// when STATUS_PORT is configured.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"buildflow/internal/middleware"
	"buildflow/internal/models"
)

// NewRouter builds the status engine with request logging.
func NewRouter(db *gorm.DB, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())

	router.GET("/healthz", healthz(db))

	return router
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		var users, projects, transactions int64
		db.Model(&models.User{}).Count(&users)
		db.Model(&models.Project{}).Count(&projects)
		db.Model(&models.Transaction{}).Count(&transactions)

		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"users":        users,
			"projects":     projects,
			"transactions": transactions,
		})
	}
}
