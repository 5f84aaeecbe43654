package usage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeQuota struct{}

var basic = domain.PlanLimits{
	Tier:                    "basic",
	MaxUsers:                2,
	MaxClients:              100,
	MaxAppointmentsPerMonth: 300,
	MaxServices:             -1,
}

func (fakeQuota) Plan(domain.PlanTier) (domain.PlanLimits, error) { return basic, nil }

func (fakeQuota) GetUsage(_ context.Context, tenantID int64) (*domain.UsageCounter, error) {
	return &domain.UsageCounter{
		TenantID:              tenantID,
		Period:                "2026-03",
		Users:                 1,
		Clients:               42,
		AppointmentsThisMonth: 120,
		Services:              8,
		UpdatedAt:             time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC),
	}, nil
}

func (fakeQuota) RequireFeature(tier domain.PlanTier, feature domain.Feature) error {
	has, err := basic.HasFeature(feature)
	if err != nil {
		return err
	}
	if !has {
		return &domain.FeatureNotAvailableError{Tier: tier, Feature: feature}
	}
	return nil
}

func withIdentity(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), middleware.Identity{TenantID: 1, PlanTier: "basic", Role: middleware.RoleOwner}))
}

func TestHandler_Usage(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(fakeQuota{}, logger.NewNop()).Usage(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UsageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03", resp.Period)
	assert.Equal(t, "basic", resp.Plan)
	assert.Equal(t, ResourceUsage{Current: 42, Limit: 100}, resp.Resources["clientes"])
	assert.Equal(t, ResourceUsage{Current: 8, Limit: -1}, resp.Resources["servicios"])
	assert.Equal(t, ResourceUsage{Current: 120, Limit: 300}, resp.Resources["citas_mes"])
}

func TestHandler_Feature(t *testing.T) {
	h := NewHandler(fakeQuota{}, logger.NewNop())

	tests := []struct {
		name       string
		feature    string
		wantStatus int
	}{
		{name: "not on plan", feature: "sms_whatsapp", wantStatus: http.StatusForbidden},
		{name: "unknown", feature: "teleport", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/features/"+tt.feature, nil))
			req = mux.SetURLVars(req, map[string]string{"name": tt.feature})
			rec := httptest.NewRecorder()
			h.Feature(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	basic.PrioritySupport = true
	defer func() { basic.PrioritySupport = false }()

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/features/soporte_prioritario", nil))
	req = mux.SetURLVars(req, map[string]string{"name": "soporte_prioritario"})
	rec := httptest.NewRecorder()
	h.Feature(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
