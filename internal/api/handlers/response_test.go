package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: domain.NewError(domain.ErrNotFound, "client not found"), want: http.StatusNotFound},
		{name: "bad request wrapped", err: fmt.Errorf("%w: notes too long", domain.NewError(domain.ErrBadRequest, "invalid input data")), want: http.StatusBadRequest},
		{name: "conflict", err: &domain.ConflictError{AppointmentID: 1}, want: http.StatusConflict},
		{name: "quota", err: &domain.QuotaExceededError{Kind: domain.ResourceClients, Current: 50, Limit: 50}, want: http.StatusForbidden},
		{name: "feature", err: &domain.FeatureNotAvailableError{Feature: domain.FeatureSMSWhatsApp}, want: http.StatusForbidden},
		{name: "unauthorized", err: domain.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "configuration", err: domain.ErrConfiguration, want: http.StatusInternalServerError},
		{name: "plain", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestRespondDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, &domain.QuotaExceededError{Kind: domain.ResourceClients, Current: 50, Limit: 50})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, body.Code)
	assert.Contains(t, body.Message, "limit of 50 reached")

	// внутренние детали не утекают
	rec = httptest.NewRecorder()
	RespondDomainError(rec, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Corte"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "Corte", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Corte","extra":1}`))
	assert.Error(t, DecodeJSON(r, &v))
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.raw})
			got, err := PathID(r, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
