package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/benaskins/locksmith/internal/credential"
	"github.com/benaskins/locksmith/internal/generator"
	"github.com/benaskins/locksmith/internal/storage"
)

type brokenBackend struct{ *storage.MemoryStore }

func (brokenBackend) Set(string, string) error { return errors.New("read-only filesystem") }

func setupTestServer(t *testing.T, opts ...Option) (*Server, *credential.Store) {
	t.Helper()
	store := credential.NewStore(storage.NewMemoryStore())
	return NewServer(store, generator.NewSeeded(1, 1), opts...), store
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	srv, store := setupTestServer(t)
	store.Add("a.com", "u", "p")

	rec := do(t, srv, "GET", "/v1/health", "")
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := decode[map[string]any](t, rec)
	if result["status"] != "ok" {
		t.Errorf("expected status ok, got %v", result["status"])
	}
	if result["count"] != float64(1) {
		t.Errorf("expected count 1, got %v", result["count"])
	}
}

func TestAddAndList(t *testing.T) {
	srv, _ := setupTestServer(t)

	rec := do(t, srv, "POST", "/v1/credentials", `{"website":"a.com","username":"alice","password":"pw1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	created := decode[CredentialResponse](t, rec)
	if created.Password != Mask {
		t.Errorf("expected masked password in create response, got %q", created.Password)
	}

	do(t, srv, "POST", "/v1/credentials", `{"website":"b.com","username":"bob","password":"pw2"}`)

	list := decode[[]CredentialResponse](t, do(t, srv, "GET", "/v1/credentials", ""))
	if len(list) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(list))
	}
	if list[0].Website != "b.com" || list[1].Website != "a.com" {
		t.Errorf("expected most recent first, got %s, %s", list[0].Website, list[1].Website)
	}
	for _, c := range list {
		if c.Password != Mask {
			t.Errorf("expected masked password, got %q", c.Password)
		}
	}

	revealed := decode[[]CredentialResponse](t, do(t, srv, "GET", "/v1/credentials?reveal=true", ""))
	if revealed[1].Password != "pw1" {
		t.Errorf("expected revealed password pw1, got %q", revealed[1].Password)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	srv, _ := setupTestServer(t)

	rec := do(t, srv, "GET", "/v1/credentials", "")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestAddErrors(t *testing.T) {
	srv, _ := setupTestServer(t)
	do(t, srv, "POST", "/v1/credentials", `{"website":"a.com","username":"alice","password":"pw"}`)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty field", `{"website":"a.com","username":"","password":"pw"}`, http.StatusBadRequest},
		{"duplicate", `{"website":"A.COM","username":"ALICE","password":"other"}`, http.StatusConflict},
		{"bad json", `{"website":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, "POST", "/v1/credentials", tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body)
			}
		})
	}
}

func TestAddPersistenceFailure(t *testing.T) {
	store := credential.NewStore(brokenBackend{storage.NewMemoryStore()})
	srv := NewServer(store, generator.New(nil))

	rec := do(t, srv, "POST", "/v1/credentials", `{"website":"a.com","username":"u","password":"p"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestGetAndRemove(t *testing.T) {
	srv, store := setupTestServer(t)
	r, _ := store.Add("a.com", "alice", "secret")
	path := "/v1/credentials/" + strconv.FormatInt(r.ID, 10)

	got := decode[CredentialResponse](t, do(t, srv, "GET", path+"?reveal=1", ""))
	if got.Username != "alice" || got.Password != "secret" {
		t.Errorf("unexpected credential %+v", got)
	}

	rec := do(t, srv, "DELETE", path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.Len() != 0 {
		t.Errorf("expected store empty, got %d", store.Len())
	}

	if rec := do(t, srv, "DELETE", path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
	if rec := do(t, srv, "GET", path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := do(t, srv, "GET", "/v1/credentials/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func TestGenerate(t *testing.T) {
	srv, _ := setupTestServer(t, WithGenerateDefaults(GenerateDefaults{Length: 20}))

	tests := []struct {
		name     string
		body     string
		wantLen  int
		alphabet string
	}{
		{"defaults", "", 20, generator.Letters},
		{"explicit", `{"length":12,"numbers":true,"symbols":true}`, 12, generator.Alphabet(true, true)},
		{"zero", `{"length":0}`, 0, generator.Letters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, "POST", "/v1/generate", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
			}
			pw := decode[map[string]string](t, rec)["password"]
			if len(pw) != tt.wantLen {
				t.Errorf("expected length %d, got %d", tt.wantLen, len(pw))
			}
			for _, c := range pw {
				if !strings.ContainsRune(tt.alphabet, c) {
					t.Errorf("unexpected character %q in %q", c, pw)
				}
			}
		})
	}

	for _, body := range []string{`{"length":-3}`, `{"length":65}`} {
		if rec := do(t, srv, "POST", "/v1/generate", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := setupTestServer(t, WithRateLimit(1))

	codes := make([]int, 0, 5)
	for range 5 {
		codes = append(codes, do(t, srv, "GET", "/v1/health", "").Code)
	}
	limited := 0
	for _, c := range codes {
		if c == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		t.Errorf("expected some requests to be rate limited, got %v", codes)
	}
	if codes[0] != http.StatusOK {
		t.Errorf("expected first request admitted, got %d", codes[0])
	}
}

func TestListenUnix(t *testing.T) {
	srv, _ := setupTestServer(t)

	sockPath := filepath.Join(t.TempDir(), "test.sock")
	go srv.ListenUnix(sockPath)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	// Wait for socket to be ready
	for i := 0; i < 50; i++ {
		if conn, err := net.Dial("unix", sockPath); err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", sockPath)
			},
		},
	}

	resp, err := client.Get("http://locksmith/v1/health")
	if err != nil {
		t.Fatalf("GET /v1/health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
