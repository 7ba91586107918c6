//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/auditlog-backend/internal/app"
	"github.com/heartmarshall/auditlog-backend/internal/auth"
	"github.com/heartmarshall/auditlog-backend/internal/config"
)

const (
	testSecret   = "e2e-jwt-secret-that-is-long-enough-for-hs256"
	testIssuer   = "auditlog-e2e"
	adminKey     = "e2e-admin-key"
	tenantHeader = "X-Tenant-ID"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *auth.JWTManager
	mode   string
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application stack against the shared
// PostgreSQL container, connected as the row-level-security-bound role.
func setupTestServer(t *testing.T, mode string) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Config{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20, RequestTimeout: 10 * time.Second},
		Auth: config.AuthConfig{
			Mode:           mode,
			JWTSecret:      testSecret,
			JWTIssuer:      testIssuer,
			TenantClaim:    "tid",
			TenantHeader:   tenantHeader,
			AccessTokenTTL: time.Hour,
		},
		Admin: config.AdminConfig{APIKeyHash: string(hash)},
		CORS:  config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST", AllowedHeaders: "Authorization,Content-Type"},
	}

	handler, err := app.NewHandler(cfg, app.HandlerDeps{
		Pool:    pool,
		Logger:  logger,
		Version: "e2e",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    auth.NewJWTManager(testSecret, testIssuer, "tid", time.Hour),
		mode:   mode,
	}
}

// seedTenant inserts a fresh tenant directly into the database.
func (ts *testServer) seedTenant(t *testing.T) string {
	t.Helper()
	return testhelper.SeedTenant(t, ts.Pool).ID
}

// do sends a request scoped to tenantID using the server's auth mode. An
// empty tenantID sends no credentials.
func (ts *testServer) do(t *testing.T, method, path, tenantID string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	if tenantID != "" {
		switch ts.mode {
		case config.AuthModeHeader:
			req.Header.Set(tenantHeader, tenantID)
		default:
			token, err := ts.jwt.IssueToken("svc-e2e", tenantID)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// post creates an event in header mode without touching t, so it is safe
// to call from helper goroutines.
func (ts *testServer) post(tenantID string, body eventBody) (int, eventResult, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, eventResult{}, err
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/events", bytes.NewReader(raw))
	if err != nil {
		return 0, eventResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tenantHeader, tenantID)

	resp, err := ts.Client.Do(req)
	if err != nil {
		return 0, eventResult{}, err
	}
	defer resp.Body.Close()

	var ev eventResult
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		return resp.StatusCode, eventResult{}, fmt.Errorf("decode: %w", err)
	}
	return resp.StatusCode, ev, nil
}

// admin sends a request carrying the admin key.
func (ts *testServer) admin(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("X-Admin-Key", adminKey)

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// ---------------------------------------------------------------------------
// Request builders and response shapes.
// ---------------------------------------------------------------------------

type ref struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type eventBody struct {
	IdempotencyKey string         `json:"idempotency_key"`
	OccurredAt     time.Time      `json:"occurred_at"`
	Type           string         `json:"type"`
	Actor          ref            `json:"actor"`
	Entities       []ref          `json:"entities,omitempty"`
	Payload        map[string]any `json:"payload"`
}

type eventResult struct {
	EventID        string          `json:"event_id"`
	TenantID       string          `json:"tenant_id"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Type           string          `json:"type"`
	Actor          ref             `json:"actor"`
	Entities       []ref           `json:"entities"`
	Payload        json.RawMessage `json:"payload"`
	IdempotencyKey string          `json:"idempotency_key"`
	Hash           string          `json:"hash"`
}

type pageResult struct {
	Events     []eventResult `json:"events"`
	NextCursor *string       `json:"next_cursor"`
}

type errorResult struct {
	Error          string `json:"error"`
	Message        string `json:"message"`
	IdempotencyKey string `json:"idempotency_key"`
}

func newEvent(occurredAt time.Time, entities ...ref) eventBody {
	return eventBody{
		IdempotencyKey: "key-" + uuid.NewString(),
		OccurredAt:     occurredAt.UTC().Truncate(time.Millisecond),
		Type:           "order.created",
		Actor:          ref{Kind: "user", ID: "u-42"},
		Entities:       entities,
		Payload:        map[string]any{"amount": 42},
	}
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", raw)
	return v
}

// createEvent posts body and requires 201.
func (ts *testServer) createEvent(t *testing.T, tenantID string, body eventBody) eventResult {
	t.Helper()
	resp, raw := ts.do(t, http.MethodPost, "/v1/events", tenantID, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	return decode[eventResult](t, raw)
}

func timelinePath(kind, id, cursor string, limit int) string {
	path := fmt.Sprintf("/v1/timeline?entity=%s:%s&limit=%d", kind, id, limit)
	if cursor != "" {
		path += "&cursor=" + cursor
	}
	return path
}
