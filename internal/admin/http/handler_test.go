package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/home-services-backend/internal/admin"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	a   *admin.Analytics
	err error
}

func (s stubService) Analytics(context.Context) (*admin.Analytics, error) { return s.a, s.err }

func serve(svc admin.Service) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), pass, pass)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/admin/analytics", nil))
	return w
}

func TestAnalyticsHandler(t *testing.T) {
	w := serve(stubService{a: &admin.Analytics{
		TotalUsers:     3,
		TotalBookings:  1,
		RecentBookings: []*booking.Booking{{ID: "b1", Status: booking.StatusPending}},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body["total_users"])
	assert.EqualValues(t, 0, body["total_services"])
	recent, ok := body["recent_bookings"].([]any)
	require.True(t, ok)
	assert.Len(t, recent, 1)
}

func TestAnalyticsHandlerFailure(t *testing.T) {
	w := serve(stubService{err: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
