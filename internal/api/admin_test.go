package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/users", nil)
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "forbidden", errorKind(t, w))
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := testhelpers.CreateUser(t, env.db, "admin@example.com")
	testhelpers.MakeAdmin(t, env.db, admin.ID)
	token := testhelpers.Token(t, admin.ID)
	testhelpers.SetGenerationCount(t, env.db, env.user.ID, models.PlanWorkout, 3)

	w := env.request(t, token, http.MethodGet, "/api/v1/admin/users?limit=10", nil)
	requireStatus(t, w, http.StatusOK)
	var users struct {
		Users []map[string]interface{} `json:"users"`
	}
	decode(t, w, &users)
	assert.Len(t, users.Users, 2)

	w = env.request(t, token, http.MethodPost, "/api/v1/admin/users/"+env.user.ID.String()+"/reset-count",
		map[string]string{"plan_type": "workout"})
	requireStatus(t, w, http.StatusNoContent)

	w = env.do(t, http.MethodGet, "/api/v1/access/workout", nil)
	requireStatus(t, w, http.StatusOK)
	var decision map[string]interface{}
	decode(t, w, &decision)
	assert.EqualValues(t, 0, decision["generation_count"])

	w = env.request(t, token, http.MethodPut, "/api/v1/admin/payment-settings",
		map[string]interface{}{"plan_type": "physio", "price": 29.9, "is_active": true})
	requireStatus(t, w, http.StatusOK)
	var settings models.PaymentSettings
	decode(t, w, &settings)
	assert.InDelta(t, 29.9, settings.Price, 1e-9)

	w = env.request(t, token, http.MethodGet, "/api/v1/admin/payment-settings", nil)
	requireStatus(t, w, http.StatusOK)

	w = env.request(t, token, http.MethodPost, "/api/v1/admin/grants",
		map[string]interface{}{"user_id": env.user.ID, "plan_type": "nutrition", "single_use": true})
	requireStatus(t, w, http.StatusCreated)
	var grant models.PlanAccessGrant
	decode(t, w, &grant)
	require.True(t, grant.IsActive)

	w = env.request(t, token, http.MethodDelete, "/api/v1/admin/grants/"+grant.ID.String(), nil)
	requireStatus(t, w, http.StatusNoContent)
	w = env.request(t, token, http.MethodDelete, "/api/v1/admin/grants/"+uuid.NewString(), nil)
	requireStatus(t, w, http.StatusNotFound)

	w = env.request(t, token, http.MethodGet, "/api/v1/admin/payments?status=approved", nil)
	requireStatus(t, w, http.StatusOK)
}
