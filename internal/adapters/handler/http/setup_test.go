package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/lectio-sync-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/adapters/kvstore"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, schema domain.OutputSchema) ([]byte, error) {
	args := m.Called(ctx, prompt, schema)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type testEnv struct {
	router  *gin.Engine
	store   *kvstore.MemoryStore
	tracker *services.ProgressTracker
	gen     *MockGenerator
}

var testPlans = []domain.PlanDefinition{
	{ID: "ruth", Key: "ruth", Name: "Rute", StartBook: "Rute", EndBook: "Rute", DurationDays: 2},
	{ID: "jonah", Key: "jonah", Name: "Jonas", StartBook: "Jonas", EndBook: "Jonas", DurationDays: 4},
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := kvstore.NewMemoryStore(0)
	sync := services.NewPersistenceSync(store, services.NewPlanCatalog(testPlans))
	initial, err := sync.Load(ctx)
	require.NoError(t, err)

	tracker := services.NewProgressTracker(initial, services.WithObserver(sync))
	tracker.Start(ctx)

	gen := new(MockGenerator)
	content := services.NewContentService(gen)
	bible := services.NewBibleService(services.NewContentCache(store), content.ChapterText, tracker, nil)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		PlanHandler:    adapterHTTP.NewPlanHandler(tracker),
		StatsHandler:   adapterHTTP.NewStatsHandler(tracker),
		BibleHandler:   adapterHTTP.NewBibleHandler(bible),
		ContentHandler: adapterHTTP.NewContentHandler(content),
		StateHandler:   adapterHTTP.NewStateHandler(tracker, sync),
		Store:          store,
		StoreBackend:   "memory",
		StartTime:      time.Now(),
	})

	return &testEnv{router: router, store: store, tracker: tracker, gen: gen}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) firstTaskID(t *testing.T, planID string) string {
	t.Helper()
	state, err := e.tracker.Snapshot(context.Background())
	require.NoError(t, err)
	plan, ok := state.Plan(planID)
	require.True(t, ok)
	return plan.Tasks[0].ID
}
