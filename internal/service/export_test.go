package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = body
	m.types[key] = contentType
	return nil
}

func (m *memoryStore) GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://bucket.test/" + key + "?expires=" + expiration.String(), nil
}

func storedPlan(planType models.PlanType, doc string) *service.StoredPlan {
	return &service.StoredPlan{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		PlanType:    planType,
		PlanData:    models.JSONDoc(doc),
		GeneratedAt: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderPDF(t *testing.T) {
	export := service.NewExportService(nil)
	cases := []struct {
		name string
		plan *service.StoredPlan
	}{
		{"nutrition", storedPlan(models.PlanNutrition, generatedMealPlan)},
		{"workout", storedPlan(models.PlanWorkout, generatedWorkoutPlan)},
		{"physio", storedPlan(models.PlanPhysio, generatedPhysioPlan)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pdf, err := export.RenderPDF(tc.plan, "Maria Souza")
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
			assert.True(t, bytes.Contains(pdf, []byte("%%EOF")))
		})
	}

	_, err := export.RenderPDF(storedPlan(models.PlanType("yoga"), "{}"), "")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = export.RenderPDF(storedPlan(models.PlanWorkout, `{"sessions": "nope"}`), "")
	assert.Error(t, err)
}

func TestPublishExport(t *testing.T) {
	store := newMemoryStore()
	export := service.NewExportService(store)
	stored := storedPlan(models.PlanWorkout, generatedWorkoutPlan)
	ctx := context.Background()

	link, err := export.Publish(ctx, stored, []byte("%PDF-1.3"))
	require.NoError(t, err)

	key := service.ExportKey(stored)
	assert.Equal(t, "exports/"+stored.UserID.String()+"/workout/"+stored.ID.String()+".pdf", key)
	assert.Equal(t, "application/pdf", store.types[key])
	assert.True(t, strings.HasPrefix(link, "https://bucket.test/"+key))
	assert.Contains(t, link, service.ExportLinkTTL.String())
	assert.Equal(t, "plano-workout-2026-03-09.pdf", service.ExportFilename(stored))

	store.putErr = errors.New("access denied")
	_, err = export.Publish(ctx, stored, []byte("%PDF-1.3"))
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	_, err = service.NewExportService(nil).Publish(ctx, stored, nil)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
