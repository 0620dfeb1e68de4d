package edinet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/edinetai/internal/types"
)

func TestListDocumentsParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents.json", r.URL.Path)
		assert.Equal(t, "2026-08-28", r.URL.Query().Get("date"))
		assert.Equal(t, "2", r.URL.Query().Get("type"))
		assert.Equal(t, "test-key", r.URL.Query().Get("Subscription-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"metadata": {"status": "200"},
			"results": [
				{
					"docID": "S100ABCD",
					"secCode": "91101",
					"docTypeCode": "120",
					"docDescription": "有価証券報告書－第99期",
					"pdfFlag": "1",
					"withdrawalStatus": "0",
					"filerName": "Some Shipping K.K.",
					"submitDateTime": "2026-08-28 09:00"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	res, err := client.ListDocuments(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.Equal(t, "200", res.MetadataStatus)
	require.Len(t, res.Results, 1)

	f := res.Results[0]
	assert.Equal(t, "S100ABCD", f.DocID)
	assert.Equal(t, "91101", f.SecCode)
	assert.Equal(t, "120", f.DocTypeCode)
	assert.True(t, f.HasPDF())
	assert.False(t, f.Withdrawn())
}

func TestListDocumentsPassesThrough404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	res, err := client.ListDocuments(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.HTTPStatus)
	assert.Empty(t, res.Results)
}

func TestListDocumentsRegistryInternalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadata": {"status": "500"}, "results": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	res, err := client.ListDocuments(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.Equal(t, "500", res.MetadataStatus)
	assert.Empty(t, res.Results, "no partial results on registry internal error")
}

func TestListDocumentsTransportFailure(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	res, err := client.ListDocuments(context.Background(), time.Now())
	require.Error(t, err)
	assert.Equal(t, types.StatusTransportFailure, res.HTTPStatus)
	assert.Empty(t, res.Results)
}

func TestWithRateLimitIgnoresNonPositive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadata": {"status": "200"}, "results": []}`))
	}))
	defer srv.Close()

	// A zero-burst limiter would fail every Wait, so a successful listing
	// call proves the option fell back to the default limiter.
	for _, rps := range []int{0, -5} {
		client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(rps))

		res, err := client.ListDocuments(context.Background(), time.Now())
		require.NoError(t, err, "rate_limit=%d must not disable the client", rps)
		assert.Equal(t, http.StatusOK, res.HTTPStatus)
	}
}

func TestFetchDocumentReturnsPayloadAndContentType(t *testing.T) {
	payload := []byte("%PDF-1.7 fake pdf body")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/S100ABCD", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("type"))

		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	got, contentType, err := client.FetchDocument(context.Background(), "S100ABCD")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "application/pdf", contentType)
}

func TestFetchDocumentNonOKIsHardError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	_, _, err := client.FetchDocument(context.Background(), "S100GONE")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
