//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertHeaders compares headers by prefix so media types match regardless
// of their charset parameter.
func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		got := w.Header().Get(k)
		assert.True(t, strings.HasPrefix(got, v), "header %s: want prefix %q, got %q", k, v, got)
	}
}

// AssertRequestID checks the response carries the id the logging middleware assigned.
func AssertRequestID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	id := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, id, "response has no request id")
	return id
}
