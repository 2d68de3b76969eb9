package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/meetme/internal/api/handler"
	"github.com/Freeeeeet/meetme/internal/config"
	"github.com/Freeeeeet/meetme/internal/repository/memory"
	"github.com/Freeeeeet/meetme/internal/service"
	"github.com/Freeeeeet/meetme/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	slots := memory.NewSlotStore()
	appointments := memory.NewAppointmentStore()
	dispatcher := service.NewDispatcher(8, logger)

	h := handler.NewHandler(handler.Services{
		Booking:      service.NewBookingService(slots, appointments, dispatcher, service.BookingConfig{Location: time.UTC}, logger),
		Slots:        service.NewSlotService(slots, time.UTC, logger),
		Notification: service.NewNotificationService(memory.NewNotificationStore()),
		Export:       service.NewExportService(appointments, time.UTC, logger),
	}, handler.NewWSHandler(session.NewHub(), session.NewHub(), nil, cfg.CORSAllowOrigins, logger))

	var engine *gin.Engine
	require.NotPanics(t, func() { engine = Setup(cfg, h, logger) })
	return engine
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:      "test",
		RateLimitRPS:     1000,
		RateLimitBurst:   1000,
		CORSAllowOrigins: []string{"*"},
	}
}

func TestSetup_Health(t *testing.T) {
	r := newEngine(t, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetup_SlotRoutes(t *testing.T) {
	r := newEngine(t, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/MATH101", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete,
		"/available-slots/delete?professor_email=p1@uni.edu&course_id=MATH101&date=2024-05-01&time=14:00", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetup_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	r := newEngine(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/MATH101", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/MATH101", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
