package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	defer r.Body.Close()

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	w.Header().Set("Content-Type", contentType)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("received: " + string(body)))
}

func gzipBytes(t *testing.T, s string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return &buf
}

func TestGzipMiddleware(t *testing.T) {
	const receipt = `{"retailer":"Target","total":"35.35"}`

	type want struct {
		contentEncoding string
		contentType     string
		bodyContains    string
	}

	tests := []struct {
		name           string
		requestBody    string
		gzipRequest    bool
		acceptEncoding string
		contentType    string
		want           want
	}{
		{
			name:           "json response is compressed",
			requestBody:    receipt,
			acceptEncoding: "gzip",
			contentType:    "application/json",
			want: want{
				contentEncoding: "gzip",
				contentType:     "application/json",
				bodyContains:    "received: " + receipt,
			},
		},
		{
			name:           "html response is compressed",
			requestBody:    "<p>form</p>",
			acceptEncoding: "gzip, deflate",
			contentType:    "text/html",
			want: want{
				contentEncoding: "gzip",
				contentType:     "text/html",
				bodyContains:    "received: <p>form</p>",
			},
		},
		{
			name:           "plain text is left alone",
			requestBody:    "hello",
			acceptEncoding: "gzip",
			contentType:    "text/plain",
			want: want{
				contentType:  "text/plain",
				bodyContains: "received: hello",
			},
		},
		{
			name:        "client does not accept gzip",
			requestBody: receipt,
			contentType: "application/json",
			want: want{
				contentType:  "application/json",
				bodyContains: "received: " + receipt,
			},
		},
		{
			name:           "compressed request body",
			requestBody:    receipt,
			gzipRequest:    true,
			acceptEncoding: "gzip",
			contentType:    "application/json",
			want: want{
				contentEncoding: "gzip",
				contentType:     "application/json",
				bodyContains:    "received: " + receipt,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(tt.requestBody)
			if tt.gzipRequest {
				body = gzipBytes(t, tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/receipts/process", body)
			req.Header.Set("Content-Type", tt.contentType)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			if tt.gzipRequest {
				req.Header.Set("Content-Encoding", "gzip")
			}

			rec := httptest.NewRecorder()
			GzipMiddleware(http.HandlerFunc(echoHandler)).ServeHTTP(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			require.Equal(t, http.StatusOK, res.StatusCode)
			assert.Equal(t, tt.want.contentType, res.Header.Get("Content-Type"))
			assert.Equal(t, tt.want.contentEncoding, res.Header.Get("Content-Encoding"))

			var reader io.Reader = res.Body
			if res.Header.Get("Content-Encoding") == "gzip" {
				gr, err := gzip.NewReader(res.Body)
				require.NoError(t, err)
				defer gr.Close()
				reader = gr
			}

			got, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Contains(t, string(got), tt.want.bodyContains)
		})
	}
}

func TestGzipMiddleware_BrokenRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/receipts/process", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")

	rec := httptest.NewRecorder()
	GzipMiddleware(http.HandlerFunc(echoHandler)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
