// internal/handlers/alert.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dealradar/dealradar-backend/internal/services"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// GET /alerts
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.ListAlerts(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"alerts": alerts,
	})
}

// POST /alerts
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	alert, err := h.alertService.CreateAlert(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, err.Error())
		case errors.Is(err, services.ErrInvalidTargetPrice):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Price alert created",
		"alert":   alert,
	})
}

// PUT /alerts/:id/deactivate
func (h *AlertHandler) DeactivateAlert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid alert ID", nil)
		return
	}

	if err := h.alertService.DeactivateAlert(userID, alertID); err != nil {
		if errors.Is(err, services.ErrAlertNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Alert deactivated",
	})
}

// DELETE /alerts/:id
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid alert ID", nil)
		return
	}

	if err := h.alertService.DeleteAlert(userID, alertID); err != nil {
		if errors.Is(err, services.ErrAlertNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Alert deleted",
	})
}
