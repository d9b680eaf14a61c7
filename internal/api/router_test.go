package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterGuards(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Minute)
	r, err := NewRouter(Config{Logger: logging.Discard(), JWTManager: jwtManager})
	require.NoError(t, err)

	customer, err := jwtManager.GenerateAccessToken("c1", auth.RoleCustomer)
	require.NoError(t, err)
	professional, err := jwtManager.GenerateAccessToken("p1", auth.RoleProfessional)
	require.NoError(t, err)

	tests := []struct {
		method, path, token string
		want                int
	}{
		{http.MethodGet, "/v1/me", "", http.StatusUnauthorized},
		{http.MethodPost, "/v1/bookings", "", http.StatusUnauthorized},
		{http.MethodPost, "/v1/bookings", professional, http.StatusForbidden},
		{http.MethodPut, "/v1/bookings/x/accept", customer, http.StatusForbidden},
		{http.MethodGet, "/v1/professionals/available-bookings", customer, http.StatusForbidden},
		{http.MethodGet, "/v1/professionals/profile", customer, http.StatusForbidden},
		{http.MethodPost, "/v1/reviews", professional, http.StatusForbidden},
		{http.MethodGet, "/v1/admin/analytics", customer, http.StatusForbidden},
		{http.MethodGet, "/v1/admin/users", professional, http.StatusForbidden},
		{http.MethodPost, "/v1/admin/services", customer, http.StatusForbidden},
		{http.MethodGet, "/v1/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
