package handler

import (
	"net/http"

	"hospital-locator/internal/middleware"
	"hospital-locator/internal/models"
	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HospitalHandler struct {
	accountService *service.AccountService
}

func NewHospitalHandler(accountService *service.AccountService) *HospitalHandler {
	return &HospitalHandler{
		accountService: accountService,
	}
}

type locationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

// currentHospital fetches the authenticated account or aborts with 401
func currentHospital(c *gin.Context) (*models.HospitalAccount, bool) {
	account, ok := middleware.CurrentHospital(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
		return nil, false
	}
	return account, true
}

// GetProfile returns the authenticated hospital's public view
func (h *HospitalHandler) GetProfile(c *gin.Context) {
	account, ok := currentHospital(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, service.NewAccountView(account))
}

// UpdateProfile changes phone and/or address
func (h *HospitalHandler) UpdateProfile(c *gin.Context) {
	account, ok := currentHospital(c)
	if !ok {
		return
	}

	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.accountService.UpdateProfile(c.Request.Context(), account, req)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// Deactivate soft-deletes the authenticated account
func (h *HospitalHandler) Deactivate(c *gin.Context) {
	account, ok := currentHospital(c)
	if !ok {
		return
	}

	if err := h.accountService.Deactivate(c.Request.Context(), account); err != nil {
		writeError(c, err)
		return
	}

	utils.MessageResponse(c, "Hospital account deactivated")
}

// UpdateLocation overwrites the hospital location
func (h *HospitalHandler) UpdateLocation(c *gin.Context) {
	account, ok := currentHospital(c)
	if !ok {
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	view, err := h.accountService.UpdateLocation(c.Request.Context(), account, *req.Lat, *req.Lon)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// UpdateCapabilities replaces whichever capability fields are present
func (h *HospitalHandler) UpdateCapabilities(c *gin.Context) {
	account, ok := currentHospital(c)
	if !ok {
		return
	}

	var req service.CapabilitiesUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.accountService.UpdateCapabilities(c.Request.Context(), account, req)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
