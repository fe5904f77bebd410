package handlers

import (
	"net/http"
	"strconv"

	"plantcare-service/internal/repository"
	"plantcare-service/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	center      services.INotificationCenter
	preferences repository.SnapshotRepository
}

func NewNotificationHandler(center services.INotificationCenter, preferences repository.SnapshotRepository) *NotificationHandler {
	return &NotificationHandler{
		center:      center,
		preferences: preferences,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/notifications/api/v1")
	group.POST("/sessions/:businessId/start", h.StartSession)
	group.POST("/sessions/:businessId/stop", h.StopSession)
	group.POST("/sessions/:businessId/foreground", h.Foreground)
	group.POST("/sessions/:businessId/background", h.Background)
	group.GET("/sessions/:businessId", h.GetSession)
	group.GET("/sessions/:businessId/active", h.GetActive)
	group.POST("/sessions/:businessId/read/:notificationId", h.MarkAsRead)
	group.PUT("/sessions/:businessId/auto-refresh", h.SetAutoRefresh)
}

func (h *NotificationHandler) StartSession(c *gin.Context) {
	businessID := c.Param("businessId")
	if err := h.center.Start(c.Request.Context(), businessID); err != nil {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", err.Error()))
		return
	}
	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{"status": "polling"}))
}

func (h *NotificationHandler) StopSession(c *gin.Context) {
	businessID := c.Param("businessId")
	if err := h.center.Stop(businessID); err != nil {
		c.JSON(http.StatusNotFound, CreateErrorResponse("Not Found", "no active session for business"))
		return
	}
	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{"status": "stopped"}))
}

func (h *NotificationHandler) Foreground(c *gin.Context) {
	h.center.OnForeground(c.Request.Context(), c.Param("businessId"))
	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{"status": "polling"}))
}

func (h *NotificationHandler) Background(c *gin.Context) {
	h.center.OnBackground(c.Param("businessId"))
	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{"status": "stopped"}))
}

func (h *NotificationHandler) GetSession(c *gin.Context) {
	state, err := h.center.State(c.Param("businessId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, CreateErrorResponse("Internal server error", "Failed to read session state"))
		return
	}
	c.JSON(http.StatusOK, CreateSuccessResponse(state))
}

func (h *NotificationHandler) GetActive(c *gin.Context) {
	active, hasNew := h.center.ActiveFor(c.Param("businessId"))
	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{
		"notifications": active,
		"has_new":       hasNew,
	}))
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	businessID := c.Param("businessId")
	notificationID := c.Param("notificationId")

	if err := h.center.MarkAsRead(c.Request.Context(), businessID, notificationID); err != nil {
		c.JSON(http.StatusNotFound, CreateErrorResponse("Not Found", err.Error()))
		return
	}
	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{"read": true}))
}

func (h *NotificationHandler) SetAutoRefresh(c *gin.Context) {
	businessID := c.Param("businessId")
	enabledStr := c.Query("enabled")
	enabled, err := strconv.ParseBool(enabledStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", "enabled must be true or false"))
		return
	}

	if err := h.preferences.SetAutoRefresh(c.Request.Context(), businessID, enabled); err != nil {
		c.JSON(http.StatusInternalServerError, CreateErrorResponse("Internal server error", "Failed to store preference"))
		return
	}
	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{"auto_refresh": enabled}))
}
