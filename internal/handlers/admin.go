// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dealradar/dealradar-backend/internal/services"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

// AdminHandler owns the catalog-management surface used by the scraper's
// operators. Price changes made here flow through the pricing service, so
// triggered alerts come back in the update response.
type AdminHandler struct {
	productService      *services.ProductService
	notificationService *services.NotificationService
}

func NewAdminHandler(productService *services.ProductService, notificationService *services.NotificationService) *AdminHandler {
	return &AdminHandler{
		productService:      productService,
		notificationService: notificationService,
	}
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPrice) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Product created",
		"product": product,
	})
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, triggered, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, err.Error())
		case errors.Is(err, services.ErrInvalidPrice):
			utils.BadRequestResponse(c, err.Error(), nil)
		case errors.Is(err, services.ErrStorageConflict):
			utils.ServiceUnavailableResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	h.notificationService.NotifyTriggeredAlerts(triggered)

	utils.SuccessResponse(c, gin.H{
		"message":          "Product updated",
		"product":          product,
		"triggered_alerts": triggered,
	})
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Product deleted",
	})
}
