package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soochol/viscribe/internal/tools"
	"github.com/soochol/viscribe/internal/viscribe"
)

// fakeClient answers describe and credits; everything else is unused.
type fakeClient struct {
	tools.Client
	err error
}

func (f *fakeClient) DescribeImage(ctx context.Context, req *viscribe.DescribeImageRequest) (*viscribe.DescribeImageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &viscribe.DescribeImageResponse{RequestID: "r-1", CreditsUsed: 1, ImageDescription: "A cat", Tags: []string{"cat"}}, nil
}

func (f *fakeClient) GetCredits(ctx context.Context) (*viscribe.CreditsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &viscribe.CreditsResponse{RemainingCredits: 1000, TotalCreditsUsed: 50}, nil
}

func newTestServer(c tools.Client) *Server {
	return NewServer(tools.NewDefaultRegistry(c))
}

func do(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAPI_Healthz(t *testing.T) {
	w := do(t, newTestServer(&fakeClient{}).Handler(), "GET", "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 7, decode(t, w)["tools"])
}

func TestAPI_ListTools(t *testing.T) {
	w := do(t, newTestServer(&fakeClient{}).Handler(), "GET", "/api/tools", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []tools.ToolInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 7)
	assert.Equal(t, tools.AskImageName, list[0].Name)
	assert.Equal(t, "object", list[0].InputSchema["type"])
}

func TestAPI_GetTool(t *testing.T) {
	h := newTestServer(&fakeClient{}).Handler()
	w := do(t, h, "GET", "/api/tools/CompareImages", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tools.CompareImagesName, decode(t, w)["name"])

	w = do(t, h, "GET", "/api/tools/Nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ExecuteTool(t *testing.T) {
	w := do(t, newTestServer(&fakeClient{}).Handler(), "POST", "/api/tools/DescribeImage",
		map[string]any{"image_url": "https://ex/cat.jpg"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.Equal(t, "r-1", out["request_id"])
	assert.Equal(t, "A cat", out["image_description"])
	assert.Len(t, out, 4)
}

func TestAPI_ExecuteTool_EmptyBody(t *testing.T) {
	w := do(t, newTestServer(&fakeClient{}).Handler(), "POST", "/api/tools/GetCredits", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1000, decode(t, w)["remaining_credits"])
}

func TestAPI_ExecuteTool_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		client tools.Client
		path   string
		body   any
		status int
		typ    string
	}{
		{"validation", &fakeClient{}, "/api/tools/DescribeImage", map[string]any{}, http.StatusBadRequest, "validation"},
		{"invalid input", &fakeClient{}, "/api/tools/ExtractImage", map[string]any{"image_url": "u"}, http.StatusBadRequest, "invalid_input"},
		{"not found", &fakeClient{}, "/api/tools/DescribeImage", map[string]any{"image_path": "/definitely/not/here.png"}, http.StatusNotFound, "not_found"},
		{"unknown tool", &fakeClient{}, "/api/tools/Nope", map[string]any{}, http.StatusNotFound, "not_found"},
		{"upstream", &fakeClient{err: &viscribe.APIError{StatusCode: 402, Message: "Insufficient credits"}}, "/api/tools/GetCredits", nil, http.StatusBadGateway, "upstream"},
		{"missing key", &fakeClient{err: viscribe.ErrMissingAPIKey}, "/api/tools/GetCredits", nil, http.StatusServiceUnavailable, "configuration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, newTestServer(tc.client).Handler(), "POST", tc.path, tc.body, nil)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.typ, decode(t, w)["type"])
		})
	}
}

func TestAPI_ExecuteTool_UpstreamStatus(t *testing.T) {
	c := &fakeClient{err: &viscribe.APIError{StatusCode: 402, Message: "Insufficient credits"}}
	w := do(t, newTestServer(c).Handler(), "POST", "/api/tools/GetCredits", nil, nil)
	out := decode(t, w)
	assert.Equal(t, "Insufficient credits", out["error"])
	assert.EqualValues(t, 402, out["upstream_status"])
}

func TestAPI_ExecuteTool_LocalPathsDisabled(t *testing.T) {
	c := &fakeClient{}
	h := NewServer(tools.NewDefaultRegistry(c, tools.WithoutLocalPaths())).Handler()

	for _, path := range []string{"/etc/passwd", "/etc", "/definitely/not/here.png"} {
		w := do(t, h, "POST", "/api/tools/DescribeImage", map[string]any{"image_path": path}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		out := decode(t, w)
		assert.Equal(t, "validation", out["type"])
		assert.NotContains(t, out["error"], path)
	}

	w := do(t, h, "GET", "/api/tools/DescribeImage", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	props := decode(t, w)["input_schema"].(map[string]any)["properties"].(map[string]any)
	assert.NotContains(t, props, "image_path")
}

func TestAPI_ExecuteTool_BadJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/tools/GetCredits", bytes.NewReader([]byte(`[1,2]`)))
	w := httptest.NewRecorder()
	newTestServer(&fakeClient{}).Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_ChatDisabledWithoutAgent(t *testing.T) {
	w := do(t, newTestServer(&fakeClient{}).Handler(), "POST", "/api/chat", map[string]any{"prompt": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_JWT(t *testing.T) {
	const secret = "test-secret"
	srv := newTestServer(&fakeClient{})
	srv.SetJWTSecret(secret)
	h := srv.Handler()

	w := do(t, h, "GET", "/api/tools", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, "GET", "/api/tools", nil, http.Header{"Authorization": {"Bearer not-a-token"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := IssueToken(secret, "tester", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	require.NoError(t, err)
	w = do(t, h, "GET", "/api/tools", nil, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, w.Code)

	expired, err := IssueToken(secret, "tester", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})
	require.NoError(t, err)
	w = do(t, h, "GET", "/api/tools", nil, http.Header{"Authorization": {"Bearer " + expired}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	wrong, err := IssueToken("other", "tester", jwt.RegisteredClaims{})
	require.NoError(t, err)
	w = do(t, h, "GET", "/api/tools", nil, http.Header{"Authorization": {"Bearer " + wrong}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// health stays open
	w = do(t, h, "GET", "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
