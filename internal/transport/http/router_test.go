package httptransport_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simonev/internal/audit"
	auditmem "simonev/internal/audit/store/memory"
	"simonev/internal/identity"
	"simonev/internal/jwttoken"
	"simonev/internal/kegiatan"
	kegiatanmem "simonev/internal/kegiatan/store/memory"
	"simonev/internal/progress"
	progressmem "simonev/internal/progress/store/memory"
	httptransport "simonev/internal/transport/http"
)

type testEnv struct {
	server     *httptest.Server
	auditStore *auditmem.InMemoryStore
	token      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	auditStore := auditmem.NewInMemoryStore()
	recorder, err := audit.NewRecorder(auditStore, audit.WithLogger(logger))
	require.NoError(t, err)

	progressSvc, err := progress.New(progressmem.NewInMemoryStore(),
		progress.WithRecorder(recorder), progress.WithLogger(logger))
	require.NoError(t, err)

	kegiatanSvc, err := kegiatan.New(kegiatanmem.NewInMemoryStore(),
		kegiatan.WithPipeline(progressSvc),
		kegiatan.WithRecorder(recorder),
		kegiatan.WithLogger(logger))
	require.NoError(t, err)

	userStore := identity.NewInMemoryStore()
	_, err = identity.SeedBootstrapAdmin(t.Context(), userStore, "admin@simonev.go.id", "rahasia123")
	require.NoError(t, err)
	identitySvc, err := identity.New(userStore, identity.WithLogger(logger))
	require.NoError(t, err)

	jwtService := jwttoken.NewJWTService("test-signing-key", "simonev-test")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   logger,
		JWT:      jwtService,
		Recorder: recorder,
		Identity: identitySvc,
		Tokens:   jwtService,
		TokenTTL: time.Hour,
		Kegiatan: kegiatanSvc,
		Progress: progressSvc,
		Audit:    auditStore,
	})

	env := &testEnv{
		server:     httptest.NewServer(router),
		auditStore: auditStore,
	}
	t.Cleanup(env.server.Close)

	env.token = env.login(t, "admin@simonev.go.id", "rahasia123")
	return env
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) createKegiatan(t *testing.T) kegiatan.Kegiatan {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/kegiatan", e.token, map[string]any{
		"name":    "Pembangunan Balai Penyuluhan",
		"program": "Program Bangga Kencana",
		"satker":  "Perwakilan Jawa Barat",
		"year":    2026,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[kegiatan.Kegiatan](t, resp)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "admin@simonev.go.id", "password": "salah",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The failed attempt lands in the audit trail as a high-severity event.
	events, err := env.auditStore.List(t.Context(), audit.Filter{Severity: audit.SeverityHigh})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, audit.SystemActorEmail, events[0].ActorEmail)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/kegiatan", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestKegiatanLifecycle(t *testing.T) {
	env := newTestEnv(t)
	created := env.createKegiatan(t)

	resp := env.do(t, http.MethodGet, "/kegiatan/"+created.ID.String(), env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[kegiatan.Kegiatan](t, resp)
	assert.Equal(t, created.Name, fetched.Name)

	resp = env.do(t, http.MethodPut, "/kegiatan/"+created.ID.String(), env.token, map[string]any{
		"status": "COMPLETED",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[kegiatan.Kegiatan](t, resp)
	assert.Equal(t, kegiatan.StatusCompleted, updated.Status)

	resp = env.do(t, http.MethodDelete, "/kegiatan/"+created.ID.String(), env.token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/kegiatan/"+created.ID.String(), env.token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestKegiatanList_IncludeProgress(t *testing.T) {
	env := newTestEnv(t)
	created := env.createKegiatan(t)

	resp := env.do(t, http.MethodPost, "/kegiatan/"+created.ID.String()+"/tahap/1/subtahap/0/complete", env.token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/kegiatan?include=progress", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type listItem struct {
		kegiatan.Kegiatan
		Progress *progress.Rollup `json:"progress"`
	}
	items := decode[[]listItem](t, resp)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Progress)
	assert.Equal(t, 33, items[0].Progress.StagePercentages[0])
	assert.Equal(t, created.ID, items[0].ID)
}

func TestProgressFlow(t *testing.T) {
	env := newTestEnv(t)
	created := env.createKegiatan(t)
	base := "/kegiatan/" + created.ID.String()

	// Creation initialized all eight stages.
	resp := env.do(t, http.MethodGet, base+"/tahap", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := decode[[]progress.StageRecord](t, resp)
	require.Len(t, records, progress.NumStages)

	// Complete the whole first stage.
	for i := 0; i < progress.SubstepCount(1); i++ {
		resp = env.do(t, http.MethodPost, fmt.Sprintf("%s/tahap/1/subtahap/%d/complete", base, i), env.token, nil)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, base+"/progress", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rollup := decode[progress.Rollup](t, resp)
	assert.Equal(t, 100, rollup.StagePercentages[0])
	assert.Equal(t, 12, rollup.OverallPercentage)
}

func TestProgress_BadCoordinates(t *testing.T) {
	env := newTestEnv(t)
	created := env.createKegiatan(t)

	resp := env.do(t, http.MethodPost,
		"/kegiatan/"+created.ID.String()+"/tahap/9/subtahap/0/complete", env.token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuditTrailEndpoints(t *testing.T) {
	env := newTestEnv(t)
	created := env.createKegiatan(t)

	resp := env.do(t, http.MethodGet, "/audit?entity=KEGIATAN", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]map[string]any](t, resp)
	require.NotEmpty(t, events)
	assert.Equal(t, "CREATE", events[0]["action"])
	assert.Equal(t, created.Name, events[0]["entity_name"])

	resp = env.do(t, http.MethodGet, "/audit/unread-count", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count := decode[map[string]int](t, resp)
	assert.Greater(t, count["unread"], 0)

	eventID := events[0]["id"].(string)
	resp = env.do(t, http.MethodPost, "/audit/"+eventID+"/read", env.token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/audit?entity=KEGIATAN&unread=true", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	unread := decode[[]map[string]any](t, resp)
	for _, e := range unread {
		assert.NotEqual(t, eventID, e["id"])
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/metrics", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
