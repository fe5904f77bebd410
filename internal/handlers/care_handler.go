package handlers

import (
	"net/http"
	"strconv"

	"plantcare-service/internal/models"
	"plantcare-service/internal/services"

	"github.com/gin-gonic/gin"
)

type CareHandler struct {
	careService    services.ICareService
	seasonService  services.ISeasonService
	weatherService services.IWeatherService
	adjustment     services.IAdjustmentService
}

func NewCareHandler(
	careService services.ICareService,
	seasonService services.ISeasonService,
	weatherService services.IWeatherService,
	adjustment services.IAdjustmentService,
) *CareHandler {
	return &CareHandler{
		careService:    careService,
		seasonService:  seasonService,
		weatherService: weatherService,
		adjustment:     adjustment,
	}
}

func (h *CareHandler) RegisterRoutes(router *gin.Engine) {
	careGroup := router.Group("/care/api/v1")
	careGroup.POST("/check", h.RunCareCheck)
	careGroup.GET("/adjustment", h.GetAdjustment)
	careGroup.POST("/seasonal/schedule", h.ScheduleSeasonal)
	careGroup.DELETE("/seasonal/:businessId", h.CancelSeasonal)
}

// RunCareCheck runs the full advisory pass for a business.
func (h *CareHandler) RunCareCheck(c *gin.Context) {
	var req models.CareCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", "business_id and device_location are required"))
		return
	}

	result, err := h.careService.RunCareCheck(c.Request.Context(), req.BusinessID, req.DeviceLocation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, CreateErrorResponse("Internal server error", "Failed to run care check"))
		return
	}

	c.JSON(http.StatusOK, CreateSuccessResponse(result))
}

// GetAdjustment evaluates the watering rules for a coordinate without
// dispatching a notification.
func (h *CareHandler) GetAdjustment(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", "lat and lon are required"))
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", "invalid latitude"))
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", "invalid longitude"))
		return
	}

	snapshot, err := h.weatherService.GetSnapshot(c.Request.Context(), lat, lon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, CreateErrorResponse("Internal server error", "Failed to fetch weather data"))
		return
	}

	c.JSON(http.StatusOK, CreateSuccessResponse(h.adjustment.Evaluate(*snapshot)))
}

func (h *CareHandler) ScheduleSeasonal(c *gin.Context) {
	var req models.ScheduleSeasonalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", "business_id and location are required"))
		return
	}

	scheduled, err := h.seasonService.Schedule(c.Request.Context(), req.BusinessID, req.Location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, CreateErrorResponse("Internal server error", "Failed to schedule seasonal tasks"))
		return
	}

	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{
		"scheduled_count": len(scheduled),
		"tasks":           scheduled,
	}))
}

func (h *CareHandler) CancelSeasonal(c *gin.Context) {
	businessID := c.Param("businessId")
	if businessID == "" {
		c.JSON(http.StatusBadRequest, CreateErrorResponse("Bad Request", "businessId is required"))
		return
	}

	if err := h.seasonService.CancelAll(c.Request.Context(), businessID); err != nil {
		c.JSON(http.StatusInternalServerError, CreateErrorResponse("Internal server error", "Failed to cancel seasonal tasks"))
		return
	}

	c.JSON(http.StatusOK, CreateSuccessResponse(gin.H{"cancelled": true}))
}
