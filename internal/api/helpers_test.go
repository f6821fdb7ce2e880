package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/middleware"
	"github.com/nandoesporte/gut59/backend/internal/mocks"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
)

const testWebhookSecret = "whsec-test"

// testEnv wires the router against sqlite-backed services, with the
// LLM, export and payment edges replaced by mocks
type testEnv struct {
	router        *gin.Engine
	db            *gorm.DB
	mr            *miniredis.Miniredis
	plans         *mocks.MockPlanService
	export        *mocks.MockExportService
	payments      *mocks.MockPaymentService
	notifications *service.NotificationService
	user          *models.User
	token         string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	rdb, mr := testhelpers.SetupRedis(t)
	notifications := service.NewNotificationService(db, rdb)
	wallet := service.NewWalletService(db, notifications)

	env := &testEnv{
		db:            db,
		mr:            mr,
		plans:         new(mocks.MockPlanService),
		export:        new(mocks.MockExportService),
		payments:      new(mocks.MockPaymentService),
		notifications: notifications,
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.ErrorHandler())
	RegisterRoutes(router, Deps{
		Auth:          service.NewAuthService(db, testhelpers.TestJWTSecret),
		Profile:       service.NewProfileService(db),
		Access:        service.NewAccessService(db),
		Plans:         env.plans,
		Export:        env.export,
		Payments:      env.payments,
		Notifications: notifications,
		Wallet:        wallet,
		Mental:        service.NewMentalHealthService(db, wallet),
		Catalog:       service.NewCatalogService(db),
		Admin:         service.NewAdminService(db),
		Limiter:       middleware.NewGenerationRateLimiter(rdb, 2),
		WebhookSecret: testWebhookSecret,
	})
	env.router = router

	env.user = testhelpers.CreateUser(t, db, "user@example.com")
	env.token = testhelpers.Token(t, env.user.ID)
	return env
}

// request performs a call authenticated as token; an empty token sends no header
func (e *testEnv) request(t *testing.T, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// do performs a call as the default user
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return e.request(t, e.token, method, path, body)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body middleware.ErrorResponse
	decode(t, w, &body)
	return string(body.Kind)
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
