package handler

import (
	"net/http"

	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accountService *service.AccountService
}

func NewAuthHandler(accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
	}
}

// LoginRequest accepts either an OAuth2 password form (username carries the
// email) or a JSON body with email and password
type LoginRequest struct {
	Email    string `form:"username" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Register handles hospital self-registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.CreatedResponse(c, account)
}

// Token exchanges credentials for a bearer access token
func (h *AuthHandler) Token(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindError(c, err)
		return
	}

	token, err := h.accountService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.SuccessResponse(c, token)
}
