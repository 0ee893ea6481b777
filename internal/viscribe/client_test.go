package viscribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("vscrb-test-key", WithBaseURL(srv.URL))
}

func TestDescribeImage_RequestShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/images/describe", r.URL.Path)
		assert.Equal(t, "vscrb-test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://ex/img.jpg", body["image_url"])
		assert.Equal(t, true, body["generate_tags"])
		assert.NotContains(t, body, "image_base64")

		w.Write([]byte(`{"request_id":"r-1","credits_used":1,"image_description":"A cat","tags":["cat","indoor"]}`))
	})

	resp, err := c.DescribeImage(context.Background(), &DescribeImageRequest{
		ImageURL:     "https://ex/img.jpg",
		GenerateTags: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", resp.RequestID)
	assert.Equal(t, 1, resp.CreditsUsed)
	assert.Equal(t, "A cat", resp.ImageDescription)
	assert.Equal(t, []string{"cat", "indoor"}, resp.Tags)
}

func TestGetCredits_UsesGET(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/credits", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.Write([]byte(`{"remaining_credits":1000,"total_credits_used":50}`))
	})

	resp, err := c.GetCredits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1000, resp.RemainingCredits)
	assert.Equal(t, 50, resp.TotalCreditsUsed)
}

func TestSubmitFeedback_ZonelessTimestamp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feedback", r.URL.Path)
		w.Write([]byte(`{
			"feedback_id":"0f8fad5b-d9cb-469f-a165-70867728950e",
			"request_id":"12345678-1234-1234-1234-123456789012",
			"message":"Feedback submitted successfully",
			"feedback_timestamp":"2024-01-15T10:30:00"
		}`))
	})

	resp, err := c.SubmitFeedback(context.Background(), &FeedbackRequest{
		RequestID: "12345678-1234-1234-1234-123456789012",
		Rating:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678-1234-1234-1234-123456789012", resp.RequestID)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), resp.FeedbackTimestamp.Time)
}

func TestSubmitFeedback_OpaqueIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body FeedbackRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "req-123-456", body.RequestID)
		w.Write([]byte(`{"feedback_id":"fb-1","request_id":"req-123-456","message":"ok","feedback_timestamp":"2024-01-15T10:30:00Z"}`))
	})

	resp, err := c.SubmitFeedback(context.Background(), &FeedbackRequest{RequestID: "req-123-456", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "fb-1", resp.FeedbackID)
	assert.Equal(t, "req-123-456", resp.RequestID)
}

func TestWithTimeout_CopiesHTTPClient(t *testing.T) {
	shared := &http.Client{}
	c := NewClient("k", WithHTTPClient(shared), WithTimeout(5*time.Second))
	assert.Zero(t, shared.Timeout)
	assert.NotSame(t, shared, c.client)
	assert.Equal(t, 5*time.Second, c.client.Timeout)

	c = NewClient("k", WithHTTPClient(http.DefaultClient), WithTimeout(time.Second))
	assert.Zero(t, http.DefaultClient.Timeout)
	assert.Equal(t, time.Second, c.client.Timeout)

	c = NewClient("k", WithHTTPClient(shared))
	assert.Same(t, shared, c.client)

	require.NotPanics(t, func() {
		c = NewClient("k", WithHTTPClient(nil), WithTimeout(time.Second))
	})
	assert.Equal(t, time.Second, c.client.Timeout)
}

func TestAPIError_DetailEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"detail":"Insufficient credits"}`))
	})

	_, err := c.AskImage(context.Background(), &AskImageRequest{ImageURL: "https://ex/a.jpg", Question: "?"})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.Equal(t, "Insufficient credits", apiErr.Message)
	assert.True(t, apiErr.InsufficientCredits())
	assert.False(t, apiErr.Unauthorized())
}

func TestAPIError_PlainBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad key\n"))
	})

	_, err := c.GetCredits(context.Background())
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "bad key", apiErr.Message)
	assert.True(t, apiErr.Unauthorized())
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("")
	_, err := c.GetCredits(context.Background())
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestExtractImage_OmitsUnsetSchema(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "fields")
		assert.NotContains(t, body, "advanced_schema")
		w.Write([]byte(`{"request_id":"r","credits_used":2,"extracted_data":{"total":42.99}}`))
	})

	resp, err := c.ExtractImage(context.Background(), &ExtractImageRequest{
		ImageBase64: "aGVsbG8=",
		Fields:      []ExtractField{{Name: "total", Type: "number"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 42.99, resp.ExtractedData["total"])
}
