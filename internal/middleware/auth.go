package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hospital-locator/internal/models"
	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
)

const hospitalContextKey = "hospital"

// Authorizer resolves a bearer token to the active account it belongs to
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*models.HospitalAccount, error)
}

// AuthMiddleware validates the bearer access token and loads the hospital
// account behind it
func AuthMiddleware(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Header("WWW-Authenticate", "Bearer")
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		account, err := authorizer.Authorize(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrStoreUnavailable):
				utils.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
			case errors.Is(err, service.ErrInvalidToken):
				c.Header("WWW-Authenticate", "Bearer")
				utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			default:
				utils.ErrorResponse(c, http.StatusInternalServerError, service.ErrInternal.Error())
			}
			c.Abort()
			return
		}

		c.Set(hospitalContextKey, account)
		c.Next()
	}
}

// CurrentHospital returns the account stored by AuthMiddleware
func CurrentHospital(c *gin.Context) (*models.HospitalAccount, bool) {
	v, exists := c.Get(hospitalContextKey)
	if !exists {
		return nil, false
	}
	account, ok := v.(*models.HospitalAccount)
	return account, ok
}
