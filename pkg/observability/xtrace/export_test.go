package xtrace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ouyangw/tracekit/pkg/observability/xlog"
)

func TestLogExporter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := xlog.New(xlog.WithWriter(&buf), xlog.WithJSON(true))
	require.NoError(t, err)

	tracer := newTestTracer(t, WithExporter(NewLogExporter(logger)))
	handler := tracer.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "http://svc/orders", nil)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	out := buf.String()
	assert.Contains(t, out, "span finished")
	assert.Contains(t, out, `"name":"/orders"`)
	assert.Contains(t, out, `"kind":"server"`)
	assert.Contains(t, out, `"status":"OK"`)
	assert.True(t, strings.Contains(out, "trace_id"))
}
