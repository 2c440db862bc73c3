package xtrace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ouyangw/tracekit/pkg/context/xctx"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// roundTripperFunc 测试用 RoundTripper
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestTransport(t *testing.T) {
	t.Run("injects traceparent as child of ambient span", func(t *testing.T) {
		exporter := &captureExporter{}
		tracer := newTestTracer(t, WithExporter(exporter))

		parent := xspan.NewSpan("inbound", xspan.KindServer, xspan.SpanContext{}, true)
		parent.MarkSampled()
		ctx, err := xctx.WithSpan(context.Background(), parent)
		require.NoError(t, err)

		var injected string
		transport := NewTransport(tracer, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			injected = r.Header.Get(xprop.HeaderTraceparent)
			return &http.Response{StatusCode: http.StatusOK}, nil
		}))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://downstream:9090/items?q=1", nil)
		require.NoError(t, err)
		resp, err := transport.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		spans := exporter.all()
		require.Len(t, spans, 1)
		span := spans[0]

		assert.Equal(t, xspan.KindClient, span.Kind())
		assert.Equal(t, parent.Context().TraceID, span.Context().TraceID)
		assert.Equal(t, parent.Context().SpanID, span.ParentSpanID())

		// 注入的 header 携带 CLIENT Span 自己的身份
		sc, ok := xprop.ParseTraceparent(injected)
		require.True(t, ok)
		assert.Equal(t, span.Context().TraceID, sc.TraceID)
		assert.Equal(t, span.Context().SpanID, sc.SpanID)
		assert.True(t, sc.IsSampled())

		assert.Equal(t, "downstream:9090", attrValue(t, span, AttrHTTPHost))
		assert.Equal(t, "http://downstream:9090/items?q=1", attrValue(t, span, AttrHTTPURL))
		assert.Equal(t, int64(200), attrValue(t, span, AttrHTTPStatusCode))
		assert.Equal(t, xspan.StatusOK, span.Status().Code)
	})

	t.Run("does not mutate the caller's request", func(t *testing.T) {
		tracer := newTestTracer(t)
		transport := NewTransport(tracer, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK}, nil
		}))

		req := httptest.NewRequest(http.MethodGet, "http://downstream/items", nil)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)

		assert.Empty(t, req.Header.Get(xprop.HeaderTraceparent),
			"RoundTripper contract: the original request must stay untouched")
	})

	t.Run("skips injection when header already present", func(t *testing.T) {
		tracer := newTestTracer(t)
		existing := "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"

		var seen string
		transport := NewTransport(tracer, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			seen = r.Header.Get(xprop.HeaderTraceparent)
			return &http.Response{StatusCode: http.StatusOK}, nil
		}))

		req := httptest.NewRequest(http.MethodGet, "http://downstream/items", nil)
		req.Header.Set(xprop.HeaderTraceparent, existing)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)

		assert.Equal(t, existing, seen, "another layer already injected, must not overwrite")
	})

	t.Run("transport error is returned unchanged", func(t *testing.T) {
		exporter := &captureExporter{}
		tracer := newTestTracer(t, WithExporter(exporter))

		wantErr := errors.New("connection refused")
		transport := NewTransport(tracer, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return nil, wantErr
		}))

		req := httptest.NewRequest(http.MethodGet, "http://downstream/items", nil)
		_, err := transport.RoundTrip(req)
		assert.ErrorIs(t, err, wantErr)

		spans := exporter.all()
		require.Len(t, spans, 1)
		assert.Equal(t, xspan.StatusUnknown, spans[0].Status().Code)
		assert.Equal(t, "connection refused", spans[0].Status().Description)
		assert.True(t, spans[0].Ended())
	})

	t.Run("end to end against a live server", func(t *testing.T) {
		serverExporter := &captureExporter{}
		serverTracer := newTestTracer(t, WithExporter(serverExporter))

		srv := httptest.NewServer(serverTracer.Middleware()(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})))
		defer srv.Close()

		clientExporter := &captureExporter{}
		clientTracer := newTestTracer(t, WithExporter(clientExporter))
		client := &http.Client{Transport: NewTransport(clientTracer, nil)}

		resp, err := client.Get(srv.URL + "/items")
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())

		clientSpans := clientExporter.all()
		serverSpans := serverExporter.all()
		require.Len(t, clientSpans, 1)
		require.Len(t, serverSpans, 1)

		// 两个进程侧的 Span 共享一条链路
		assert.Equal(t, clientSpans[0].Context().TraceID, serverSpans[0].Context().TraceID)
		assert.Equal(t, clientSpans[0].Context().SpanID, serverSpans[0].ParentSpanID())
	})
}
