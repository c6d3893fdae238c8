package pdfservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not a url", 0, nil)
	var pdfErr *Error
	assert.ErrorAs(t, err, &pdfErr)
}

func TestRender_PostsHTMLAndOptions(t *testing.T) {
	var got renderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	client, err := New(srv.URL, time.Second, nil)
	require.NoError(t, err)

	data, err := client.Render(context.Background(), "<h1>Jane</h1>", DefaultPrintOptions())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(data))
	assert.Equal(t, "<h1>Jane</h1>", got.HTML)
	assert.Equal(t, "Letter", got.Options.Format)
	assert.True(t, got.Options.PrintBackground)
}

func TestRender_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", want: "HTTP status 500"},
		{name: "not a pdf", status: http.StatusOK, body: "<html>", want: "not a PDF"},
		{name: "empty", status: http.StatusOK, body: "", want: "not a PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := New(srv.URL, time.Second, nil)
			require.NoError(t, err)

			_, err = client.Render(context.Background(), "<p/>", DefaultPrintOptions())
			require.Error(t, err)
			var pdfErr *Error
			require.ErrorAs(t, err, &pdfErr)
			assert.Contains(t, err.Error(), "PDF generation failed")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRender_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := New(url, time.Second, nil)
	require.NoError(t, err)
	_, err = client.Render(context.Background(), "<p/>", DefaultPrintOptions())
	var pdfErr *Error
	assert.ErrorAs(t, err, &pdfErr)
}
