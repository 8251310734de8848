package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-locator/internal/models"
	"hospital-locator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuthorizer struct {
	account *models.HospitalAccount
	err     error
	tokens  []string
}

func (s *stubAuthorizer) Authorize(_ context.Context, token string) (*models.HospitalAccount, error) {
	s.tokens = append(s.tokens, token)
	return s.account, s.err
}

func newAuthRouter(authorizer Authorizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(authorizer), func(c *gin.Context) {
		account, ok := CurrentHospital(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, account.Email)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		authorizer *stubAuthorizer
		wantStatus int
		wantToken  string
	}{
		{"missing header", "", &stubAuthorizer{}, http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", &stubAuthorizer{}, http.StatusUnauthorized, ""},
		{"too many parts", "Bearer a b", &stubAuthorizer{}, http.StatusUnauthorized, ""},
		{"invalid token", "Bearer abc", &stubAuthorizer{err: service.ErrInvalidToken}, http.StatusUnauthorized, "abc"},
		{"store down", "Bearer abc", &stubAuthorizer{err: fmt.Errorf("lookup: %w", service.ErrStoreUnavailable)}, http.StatusServiceUnavailable, "abc"},
		{"unexpected", "Bearer abc", &stubAuthorizer{err: service.ErrInternal}, http.StatusInternalServerError, "abc"},
		{"valid", "bearer good-token", &stubAuthorizer{account: &models.HospitalAccount{Email: "a@b.test"}}, http.StatusOK, "good-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.authorizer)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantToken == "" {
				assert.Empty(t, tt.authorizer.tokens)
			} else {
				assert.Equal(t, []string{tt.wantToken}, tt.authorizer.tokens)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "a@b.test", w.Body.String())
			}
		})
	}
}
