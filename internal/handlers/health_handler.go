package handlers

import (
	"net/http"

	"plantcare-service/internal/event"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	publisher *event.CarePublisher
}

func NewHealthHandler(publisher *event.CarePublisher) *HealthHandler {
	return &HealthHandler{publisher: publisher}
}

func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/metrics", h.Metrics)
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := h.publisher.HealthCheck()
	code := http.StatusOK
	if !status.IsHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, CreateSuccessResponse(status))
}

func (h *HealthHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, CreateSuccessResponse(h.publisher.GetMetrics()))
}
