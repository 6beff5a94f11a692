package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quizsync/internal/server"
	"github.com/aretw0/quizsync/pkg/adapters/memory"
	"github.com/aretw0/quizsync/pkg/codec"
	"github.com/aretw0/quizsync/pkg/core"
	"github.com/aretw0/quizsync/pkg/workflow"
)

type fixture struct {
	remote  *memory.Remote
	svc     *workflow.Service
	handler http.Handler
}

func setup(t *testing.T, opts ...workflow.Option) *fixture {
	t.Helper()
	return setupOrigins(t, nil, opts...)
}

func setupOrigins(t *testing.T, origins []string, opts ...workflow.Option) *fixture {
	t.Helper()
	remote := memory.New()
	svc := workflow.NewService(remote, opts...)
	srv := server.New(svc, server.Config{
		AssetDir:     "assets",
		AllowOrigins: origins,
		Now:          func() time.Time { return time.UnixMilli(1700000000000) },
	})
	return &fixture{remote: remote, svc: svc, handler: srv.Handler()}
}

func (f *fixture) fromOrigin(t *testing.T, method, target, origin string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := setup(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestCredential(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/api/credential", map[string]string{"token": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, f.svc.HasCredential())

	rec = f.do(t, http.MethodPost, "/api/credential", map[string]string{"token": "secret"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, f.svc.HasCredential())
}

func TestFiles_FetchEditWrite(t *testing.T) {
	f := setup(t, workflow.WithCredential("secret"))
	f.remote.Seed("levels.js", []byte("const a = 1;\nconst b = 1;\n"))

	rec := f.do(t, http.MethodGet, "/api/files?path=levels.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	file := decode[core.RemoteFile](t, rec)
	assert.Equal(t, memory.BlobSHA([]byte("const a = 1;\nconst b = 1;\n")), file.VersionTag)

	rec = f.do(t, http.MethodPost, "/api/replace", map[string]string{
		"path": file.Path, "content": file.Content, "sha": file.VersionTag,
		"search": "= 1", "replacement": "= 2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decode[core.RemoteFile](t, rec)
	assert.Equal(t, "const a = 2;\nconst b = 2;\n", edited.Content)
	assert.Equal(t, file.VersionTag, edited.VersionTag)

	rec = f.do(t, http.MethodPut, "/api/files", map[string]string{
		"path": edited.Path, "content": edited.Content, "sha": edited.VersionTag, "message": "bump constants",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	written := decode[core.RemoteFile](t, rec)
	assert.Equal(t, memory.BlobSHA([]byte(edited.Content)), written.VersionTag)

	puts := f.remote.Puts()
	require.Len(t, puts, 1)
	assert.Equal(t, "bump constants\n\nPowered-by: quizsync", puts[0].Message)

	// The old tag is stale now.
	rec = f.do(t, http.MethodPut, "/api/files", map[string]string{
		"path": edited.Path, "content": "x", "sha": file.VersionTag,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrigins_DefaultSameOriginOnly(t *testing.T) {
	f := setup(t, workflow.WithCredential("ghp_from_env"))
	f.remote.Seed("levels.js", []byte("const speed = 1;"))
	write := map[string]string{"path": "levels.js", "content": "overwritten"}

	t.Run("foreign preflight", func(t *testing.T) {
		rec := f.fromOrigin(t, http.MethodOptions, "/api/files", "https://evil.example", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign write", func(t *testing.T) {
		rec := f.fromOrigin(t, http.MethodPut, "/api/files", "https://evil.example", write)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, f.remote.Puts())
	})

	t.Run("foreign read", func(t *testing.T) {
		rec := f.fromOrigin(t, http.MethodGet, "/api/files?path=levels.js", "https://evil.example", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NotContains(t, rec.Body.String(), "speed")
	})

	t.Run("null origin", func(t *testing.T) {
		rec := f.fromOrigin(t, http.MethodGet, "/api/logs", "null", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("cross-site without origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/files?path=levels.js", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("same origin", func(t *testing.T) {
		// httptest requests target example.com.
		rec := f.fromOrigin(t, http.MethodGet, "/api/files?path=levels.js", "http://example.com", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no origin", func(t *testing.T) {
		rec := f.fromOrigin(t, http.MethodGet, "/api/files?path=levels.js", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOrigins_Allowed(t *testing.T) {
	f := setupOrigins(t, []string{"https://quiz.example"}, workflow.WithCredential("secret"))

	rec := f.fromOrigin(t, http.MethodOptions, "/api/files", "https://quiz.example", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://quiz.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.fromOrigin(t, http.MethodPut, "/api/files", "https://quiz.example", map[string]string{"path": "levels.js", "content": "x"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.fromOrigin(t, http.MethodPut, "/api/files", "https://other.example", map[string]string{"path": "levels.js", "content": "y"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, f.remote.Puts(), 1)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		cred   bool
		method string
		target string
		body   any
		want   int
	}{
		{"no credential", false, http.MethodGet, "/api/files?path=levels.js", nil, http.StatusUnauthorized},
		{"missing file", true, http.MethodGet, "/api/files?path=nope.js", nil, http.StatusNotFound},
		{"blank path", true, http.MethodGet, "/api/files", nil, http.StatusBadRequest},
		{"blank content", true, http.MethodPut, "/api/files", map[string]string{"path": "a.js", "content": " "}, http.StatusBadRequest},
		{"search not found", true, http.MethodPost, "/api/replace", map[string]string{"content": "abc", "search": "zzz"}, http.StatusNotFound},
		{"bad regex", true, http.MethodPost, "/api/replace", map[string]string{"content": "a(b", "search": "a(b"}, http.StatusBadRequest},
		{"malformed body", true, http.MethodPut, "/api/files", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []workflow.Option
			if tt.cred {
				opts = append(opts, workflow.WithCredential("secret"))
			}
			f := setup(t, opts...)
			rec := f.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			body := decode[map[string]string](t, rec)
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestUploads(t *testing.T) {
	f := setup(t, workflow.WithCredential("secret"))
	f.remote.FailPut("assets/b.png", &core.RemoteError{Status: 500, Message: "boom"})

	rec := f.do(t, http.MethodPost, "/api/uploads", map[string]any{
		"items": []map[string]string{
			{"id": "a", "filename": "a.png", "directory": "assets", "content": codec.Encode([]byte{0x89, 'P'})},
			{"id": "b", "filename": "b.png", "directory": "assets", "content": codec.Encode([]byte("b"))},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		Results map[string]bool `json:"results"`
	}](t, rec)
	assert.Equal(t, map[string]bool{"a": true, "b": false}, resp.Results)

	got, ok := f.remote.Content("assets/a.png")
	require.True(t, ok)
	assert.Equal(t, []byte{0x89, 'P'}, got)

	rec = f.do(t, http.MethodPost, "/api/uploads", map[string]any{
		"items": []map[string]string{{"id": "x", "filename": "x.png", "content": "%%%"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploads_StayInDirectory(t *testing.T) {
	f := setup(t, workflow.WithCredential("secret"))
	f.remote.Seed("levels.js", []byte("const speed = 1;"))

	rec := f.do(t, http.MethodPost, "/api/uploads", map[string]any{
		"items": []map[string]string{
			{"id": "up", "filename": "../levels.js", "directory": "assets", "content": codec.Encode([]byte("x"))},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		Results map[string]bool `json:"results"`
	}](t, rec)
	assert.Equal(t, map[string]bool{"up": false}, resp.Results)

	got, _ := f.remote.Content("levels.js")
	assert.Equal(t, "const speed = 1;", string(got))
	assert.Empty(t, f.remote.Puts())
}

func TestQuiz(t *testing.T) {
	f := setup(t, workflow.WithCredential("secret"))

	req := map[string]any{
		"question": "Which is [image-1]?",
		"icon":     "💡",
		"images":   []map[string]string{{"name": "cat.png", "data": codec.Encode([]byte("cat"))}},
		"options": []map[string]any{
			{"text": "Cat", "correct": true},
			{"text": "Dog", "image": map[string]string{"name": "dog.png", "data": codec.Encode([]byte("dog"))}},
		},
		"upload": true,
	}
	rec := f.do(t, http.MethodPost, "/api/quiz", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[struct {
		Text   string `json:"text"`
		Assets []struct {
			ID   string `json:"id"`
			Path string `json:"path"`
		} `json:"assets"`
		Results map[string]bool `json:"results"`
	}](t, rec)

	assert.Contains(t, resp.Text, "question: 'Which is assets/cat-1700000000000.png?'")
	assert.Contains(t, resp.Text, "imageUrl: 'assets/dog-1700000000000.png'")
	require.Len(t, resp.Assets, 2)
	assert.Equal(t, "questionImage-image-1", resp.Assets[0].ID)
	assert.Equal(t, map[string]bool{"questionImage-image-1": true, "option1": true}, resp.Results)

	got, ok := f.remote.Content("assets/dog-1700000000000.png")
	require.True(t, ok)
	assert.Equal(t, []byte("dog"), got)

	rec = f.do(t, http.MethodPost, "/api/quiz", map[string]any{"question": "", "icon": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	unnamed := map[string]any{
		"question": "Which is [image-1]?",
		"icon":     "💡",
		"images":   []map[string]string{{"name": "", "data": codec.Encode([]byte("cat"))}},
		"options":  []map[string]any{{"text": "Cat", "correct": true}, {"text": "Dog"}},
	}
	rec = f.do(t, http.MethodPost, "/api/quiz", unnamed)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "image")
}

func TestLogsAndState(t *testing.T) {
	f := setup(t)
	f.do(t, http.MethodGet, "/api/files?path=levels.js", nil)

	rec := f.do(t, http.MethodGet, "/api/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]map[string]string](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, string(core.KindFetchError), entries[0]["type"])
	assert.NotEmpty(t, entries[0]["timestamp"])

	rec = f.do(t, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[workflow.ServiceState](t, rec)
	assert.Equal(t, "memory", state.RemoteType)
	assert.Equal(t, 1, state.LogErrors)
	assert.False(t, state.HasCredential)
}
