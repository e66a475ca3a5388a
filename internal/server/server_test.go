package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alkime/xivix/internal/config"
	"github.com/alkime/xivix/internal/content"
	"github.com/alkime/xivix/internal/metrics"
	"github.com/alkime/xivix/internal/postformat"
	"github.com/alkime/xivix/internal/provider"
	"github.com/alkime/xivix/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerAnswer = `===제목===
캠핑 장비 고르는 법
===본문===
1. 텐트 선택
텐트는 인원보다 한 사이즈 크게 고르세요. 설치가 쉬운 제품이 좋습니다.
===해시태그===
#캠핑 #텐트`

type stubProvider struct {
	answer string
	err    error
}

func (s stubProvider) Name() string { return "Stub" }

func (s stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(prompt, "주제: 실패") {
		return "", &provider.Error{Provider: "Stub", Message: "upstream unavailable"}
	}
	return s.answer, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		Port:               "8080",
		AppVersion:         "7.0.0",
		HSTSMaxAge:         31536000,
		CSPMode:            "relaxed",
		LogLevel:           "info",
		Provider:           "gemini",
		GeminiAPIKey:       "test-key",
		PipelinePreset:     "classic",
		CORSAllowedOrigins: []string{"*"},
		RateLimit:          "1000-M",
		BulkMaxTopics:      10,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:       slog.LevelError, // Only show errors during tests
		AddSource:   false,
		ReplaceAttr: nil,
	}))
}

func newTestServer(t *testing.T, cfg *config.Config, p provider.Provider) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := content.NewService(content.Options{
		Kind:       cfg.ProviderKind(),
		APIKey:     cfg.ProviderAPIKey(),
		Pipeline:   postformat.New(cfg.Pipeline()),
		PresetName: cfg.PresetName(),
		Factory: func(context.Context, string) (provider.Provider, error) {
			return p, nil
		},
		Logger: testLogger(),
	})

	srv, err := server.New(cfg, testLogger(), svc, metrics.New())
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *server.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{answer: providerAnswer})

	w := do(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "xivix")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestAPIHealth(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{answer: providerAnswer})

	w := do(t, srv, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "7.0.0", body["version"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Equal(t, map[string]any{
		"provider":           "gemini",
		"providerConfigured": true,
		"pipeline":           "classic",
	}, body["services"])
}

func TestGenerateEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{answer: providerAnswer})

	w := do(t, srv, http.MethodPost, "/api/generate", map[string]any{"topic": "캠핑", "style": "C"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "캠핑 장비 고르는 법", body["title"])
	assert.Equal(t, "#캠핑 #텐트", body["hashtags"])
	assert.Equal(t, "실용 정보 (GEO)", body["style"])
	assert.Equal(t, true, body["readabilityApplied"])
	assert.Equal(t, body["result"], body["content"])
	assert.Contains(t, body["result"], "[네이버 인용구: 요약형]")
	assert.Contains(t, body["result"], "[스티커 삽입 위치]\n1. 텐트 선택")
	assert.Contains(t, body["result"], "[공감과 댓글 유도 문구]")
}

func TestGenerateErrors(t *testing.T) {
	noKey := testConfig()
	noKey.GeminiAPIKey = ""

	tests := []struct {
		name     string
		cfg      *config.Config
		provider stubProvider
		body     map[string]any
		status   int
		message  string
	}{
		{
			name:     "missing topic",
			cfg:      testConfig(),
			provider: stubProvider{answer: providerAnswer},
			body:     map[string]any{},
			status:   http.StatusBadRequest,
			message:  "주제를 입력해주세요.",
		},
		{
			name:     "rewrite without original text",
			cfg:      testConfig(),
			provider: stubProvider{answer: providerAnswer},
			body:     map[string]any{"category": "rewrite"},
			status:   http.StatusBadRequest,
			message:  "리라이팅할 원문을 입력해주세요.",
		},
		{
			name:     "missing credential",
			cfg:      noKey,
			provider: stubProvider{answer: providerAnswer},
			body:     map[string]any{"topic": "캠핑"},
			status:   http.StatusBadRequest,
			message:  "Gemini API 키가 필요합니다. 설정에서 입력해주세요.",
		},
		{
			name:     "provider failure",
			cfg:      testConfig(),
			provider: stubProvider{err: &provider.Error{Provider: "Gemini", Message: "quota exceeded"}},
			body:     map[string]any{"topic": "캠핑"},
			status:   http.StatusInternalServerError,
			message:  "Gemini API 오류: quota exceeded",
		},
		{
			name:     "empty answer",
			cfg:      testConfig(),
			provider: stubProvider{answer: "   "},
			body:     map[string]any{"topic": "캠핑"},
			status:   http.StatusInternalServerError,
			message:  "AI 응답이 비어있습니다.",
		},
		{
			name:     "invalid media url",
			cfg:      testConfig(),
			provider: stubProvider{answer: providerAnswer},
			body:     map[string]any{"topic": "캠핑", "youtubeUrl": "not a url"},
			status:   http.StatusBadRequest,
			message:  "youtubeUrl must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.cfg, tt.provider)

			w := do(t, srv, http.MethodPost, "/api/generate", tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["error"])
		})
	}
}

func TestGenerateWithRequestKey(t *testing.T) {
	cfg := testConfig()
	cfg.GeminiAPIKey = ""
	srv := newTestServer(t, cfg, stubProvider{answer: providerAnswer})

	w := do(t, srv, http.MethodPost, "/api/generate", map[string]any{"topic": "캠핑", "apiKey": "from-browser"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTransformEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{})

	w := do(t, srv, http.MethodPost, "/api/transform", map[string]any{"text": "좋은 아침입니다 ☀️"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["emojiRemoved"])
	assert.Equal(t, false, body["readabilityApplied"])
	assert.NotContains(t, body["result"], "☀")
	assert.Contains(t, body["result"], "좋은 아침입니다")
	assert.EqualValues(t, len([]rune("좋은 아침입니다")), body["rawLength"])

	w = do(t, srv, http.MethodPost, "/api/transform", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text is required", decode(t, w)["error"])
}

func TestTransformEndpointOnTransformedText(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{})

	lines := make([]string, 12)
	for i := range lines {
		lines[i] = fmt.Sprintf("%d번째 줄의 내용입니다.", i+1)
	}

	first := do(t, srv, http.MethodPost, "/api/transform", map[string]any{"text": strings.Join(lines, "\n")})
	require.Equal(t, http.StatusOK, first.Code)
	once := decode(t, first)["result"].(string)
	require.Equal(t, 1, strings.Count(once, "[이미지 삽입 위치]"))

	second := do(t, srv, http.MethodPost, "/api/transform", map[string]any{"text": once})
	require.Equal(t, http.StatusOK, second.Code)
	twice := decode(t, second)["result"].(string)

	assert.Equal(t, 1, strings.Count(twice, "[이미지 삽입 위치]"))
	assert.Equal(t, 1, strings.Count(twice, "[네이버 동영상/Shorts 삽입 영역]"))
	assert.Equal(t, 1, strings.Count(twice, "[네이버 인용구: 요약형]"))
	assert.Equal(t, 1, strings.Count(twice, "[공감과 댓글 유도 문구]"))
}

func TestReformatEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{})

	first := do(t, srv, http.MethodPost, "/api/transform", map[string]any{"text": "첫 문장입니다. 둘째 문장입니다. 셋째 문장입니다."})
	require.Equal(t, http.StatusOK, first.Code)
	formatted := decode(t, first)["result"]

	w := do(t, srv, http.MethodPost, "/api/reformat", map[string]any{"text": formatted})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["readabilityApplied"])
	assert.Contains(t, body["result"], "첫 문장입니다. 둘째 문장입니다.\n\n셋째 문장입니다.")
	assert.Equal(t, 1, strings.Count(body["result"].(string), "[공감과 댓글 유도 문구]"))
}

func TestBulkGenerateEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{answer: providerAnswer})

	w := do(t, srv, http.MethodPost, "/api/bulk-generate", map[string]any{
		"topics": []string{"캠핑", "실패", "등산"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 2, body["success"])

	results, ok := body["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 3)

	failed := results[1].(map[string]any)
	assert.Equal(t, "실패", failed["topic"])
	assert.Equal(t, false, failed["success"])
	assert.Equal(t, "Stub API 오류: upstream unavailable", failed["error"])

	ok1 := results[0].(map[string]any)
	assert.Equal(t, true, ok1["success"])
	assert.NotContains(t, ok1, "error")
}

func TestKeywordFinderEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{answer: "1. 연관 키워드: 캠핑장"})

	w := do(t, srv, http.MethodPost, "/api/keyword-finder", map[string]any{"mainKeyword": "캠핑"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"mainKeyword": "캠핑", "result": "1. 연관 키워드: 캠핑장"}, decode(t, w))

	w = do(t, srv, http.MethodPost, "/api/keyword-finder", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{})

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "https://blog.example")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = "1-M"
	srv := newTestServer(t, cfg, stubProvider{})

	first := do(t, srv, http.MethodPost, "/api/transform", map[string]any{"text": "안녕하세요."})
	second := do(t, srv, http.MethodPost, "/api/transform", map[string]any{"text": "안녕하세요."})

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health stays outside the limiter.
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/health", nil).Code)
}

func TestAdminPageAndMetrics(t *testing.T) {
	srv := newTestServer(t, testConfig(), stubProvider{})

	w := do(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "XIVIX HYBRID AGENT")

	w = do(t, srv, http.MethodGet, "/app.js", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "xivix_http_requests_total")
}
