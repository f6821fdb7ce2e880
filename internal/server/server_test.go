package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/config"
	"github.com/nandoesporte/gut59/backend/internal/api"
	"github.com/nandoesporte/gut59/backend/internal/router"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
)

func testDeps(t *testing.T) api.Deps {
	db := testhelpers.SetupTestDB(t)
	wallet := service.NewWalletService(db, nil)
	return api.Deps{
		Auth:          service.NewAuthService(db, testhelpers.TestJWTSecret),
		Profile:       service.NewProfileService(db),
		Access:        service.NewAccessService(db),
		Notifications: service.NewNotificationService(db, nil),
		Wallet:        wallet,
		Mental:        service.NewMentalHealthService(db, wallet),
		Catalog:       service.NewCatalogService(db),
		Admin:         service.NewAdminService(db),
	}
}

func TestRouterServesHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORSOrigins: []string{"http://localhost:5173"}}
	srv := New(":0", router.SetupRouter(cfg, testDeps(t)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStartAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := New(addr, router.SetupRouter(&config.Config{}, testDeps(t)))
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestShutdownEndsOpenStreams(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	streaming := make(chan struct{})
	srv := New(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(streaming)
		<-r.Context().Done()
	}))
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/stream")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	<-streaming

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NoError(t, <-done)
}
