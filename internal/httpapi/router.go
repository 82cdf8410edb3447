package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Anshuman71/micros/internal/ai"
	"github.com/Anshuman71/micros/internal/common"
	"github.com/Anshuman71/micros/internal/config"
	"github.com/Anshuman71/micros/internal/httpapi/handlers"
	"github.com/Anshuman71/micros/internal/httpapi/middleware"
	"github.com/Anshuman71/micros/internal/logger"
	"github.com/Anshuman71/micros/internal/store/redisstore"
)

func NewRouter(cfg config.Config, log *logger.Logger, store *redisstore.Store, reg *ai.Registry) (*gin.Engine, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "Not found", "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "Method not allowed", "method not allowed")
	})

	h, err := handlers.NewHandler(cfg, log, store, reg)
	if err != nil {
		return nil, err
	}

	r.GET("/ping", h.Ping)

	r.GET("/nutrients", h.ListNutrients)

	r.POST("/chat", h.DietChat)

	r.POST("/messages", h.SaveMessages)
	r.GET("/messages", h.LoadMessages)
	r.DELETE("/messages", h.ClearMessages)

	return r, nil
}
