package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/caffeinepub/smartcare-connect/internal/authz"
	adminhandler "github.com/caffeinepub/smartcare-connect/internal/handler/admin"
	delegationhandler "github.com/caffeinepub/smartcare-connect/internal/handler/delegation"
	doctorhandler "github.com/caffeinepub/smartcare-connect/internal/handler/doctor"
	profilehandler "github.com/caffeinepub/smartcare-connect/internal/handler/profile"
	recordhandler "github.com/caffeinepub/smartcare-connect/internal/handler/record"
	"github.com/caffeinepub/smartcare-connect/internal/identity"
	"github.com/caffeinepub/smartcare-connect/internal/middleware"
	"github.com/caffeinepub/smartcare-connect/internal/repository/memory"
	"github.com/caffeinepub/smartcare-connect/internal/router"
	adminservice "github.com/caffeinepub/smartcare-connect/internal/service/admin"
	delegationservice "github.com/caffeinepub/smartcare-connect/internal/service/delegation"
	"github.com/caffeinepub/smartcare-connect/internal/service/doctorview"
	"github.com/caffeinepub/smartcare-connect/internal/service/notification"
	profileservice "github.com/caffeinepub/smartcare-connect/internal/service/profile"
	recordservice "github.com/caffeinepub/smartcare-connect/internal/service/record"
)

const jwtSecret = "test-secret"

// The router registers prometheus collectors on the default registry,
// so the test server is built exactly once and shared.
var (
	buildOnce  sync.Once
	testEngine http.Handler
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	buildOnce.Do(func() {
		profiles := memory.NewProfileStore()
		records := memory.NewRecordStore()
		delegations := memory.NewDelegationStore()
		tiers := memory.NewTierStore()

		logger := zerolog.Nop()
		resolver := identity.NewResolver(profiles)
		engine := authz.NewEngine(profiles, delegations, nil)

		profileSvc := profileservice.NewService(profiles, engine)
		recordSvc := recordservice.NewService(records, profiles, engine, nil, notification.NoopService{}, nil, &logger)
		delegationSvc := delegationservice.NewService(delegations, profiles)
		doctorSvc := doctorview.NewService(profiles, records, resolver, nil)
		adminSvc := adminservice.NewService(tiers, profiles, "")
		recordSvc.OnAlert(doctorSvc.InvalidatePatient)

		r := router.NewRouter(
			middleware.NewAuthMiddleware(jwtSecret),
			router.Config{RateLimit: rate.Limit(1000), RateBurst: 1000},
			profilehandler.NewHandler(profileSvc, resolver),
			recordhandler.NewHandler(recordSvc),
			delegationhandler.NewHandler(delegationSvc),
			doctorhandler.NewHandler(doctorSvc),
			adminhandler.NewHandler(adminSvc),
		)
		r.Setup()
		testEngine = r.Engine()
	})
	return testEngine
}

func token(t *testing.T, sub string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, method, path, caller string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, caller))
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	testServer(t).ServeHTTP(w, req)
	return w
}

func TestAPI(t *testing.T) {
	t.Run("health check is public", func(t *testing.T) {
		w := doRequest(t, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("api requires a bearer token", func(t *testing.T) {
		w := doRequest(t, http.MethodGet, "/api/v1/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unregistered caller resolves as such", func(t *testing.T) {
		w := doRequest(t, http.MethodGet, "/api/v1/profile/role", "fresh", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Registered bool `json:"registered"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Data.Registered)
	})

	t.Run("onboarding flow", func(t *testing.T) {
		w := doRequest(t, http.MethodPut, "/api/v1/profile", "p1", map[string]interface{}{
			"name": "Alice",
			"role": map[string]interface{}{"kind": "patient"},
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		// Re-onboarding conflicts.
		w = doRequest(t, http.MethodPut, "/api/v1/profile", "p1", map[string]interface{}{
			"name": "Alice again",
			"role": map[string]interface{}{"kind": "patient"},
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doRequest(t, http.MethodGet, "/api/v1/profile/role", "p1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				Registered bool `json:"registered"`
				Role       struct {
					Kind string `json:"kind"`
				} `json:"role"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Registered)
		assert.Equal(t, "patient", resp.Data.Role.Kind)
	})

	t.Run("record access control over http", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, "/api/v1/patients/p1/vitals", "p1", map[string]interface{}{
			"heart_rate":     72,
			"blood_pressure": "120/80",
			"temperature":    36.6,
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, http.MethodGet, "/api/v1/patients/p1/vitals", "p2", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doRequest(t, http.MethodGet, "/api/v1/patients/p1/vitals", "p1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("family grant opens reads only", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, "/api/v1/family-access/f1", "p1", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, http.MethodGet, "/api/v1/patients/p1/vitals", "f1", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, http.MethodPost, "/api/v1/patients/p1/vitals", "f1", map[string]interface{}{
			"heart_rate":     80,
			"blood_pressure": "125/82",
			"temperature":    36.8,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doRequest(t, http.MethodDelete, "/api/v1/family-access/f1", "p1", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, http.MethodGet, "/api/v1/patients/p1/vitals", "f1", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("doctor worklist sees emergency alert", func(t *testing.T) {
		w := doRequest(t, http.MethodPut, "/api/v1/profile", "d1", map[string]interface{}{
			"name": "Dr. Lee",
			"role": map[string]interface{}{"kind": "doctor"},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, http.MethodPut, "/api/v1/patients/p1/profile", "p1", map[string]interface{}{
			"name":           "Alice",
			"age":            70,
			"primary_doctor": "d1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, http.MethodPost, "/api/v1/alerts/emergency", "p1", map[string]interface{}{
			"message": "chest pain",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, http.MethodGet, "/api/v1/doctor/alerts", "d1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []struct {
				Patient string `json:"patient"`
				Message string `json:"message"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "p1", resp.Data[0].Patient)
		assert.Equal(t, "chest pain", resp.Data[0].Message)
	})

	t.Run("malformed identity in path is a bad request", func(t *testing.T) {
		w := doRequest(t, http.MethodGet, "/api/v1/patients/bad%20id/vitals", "p1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
