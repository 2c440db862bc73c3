package xprop

import (
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/propagation"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

func TestToOTelFromOTel(t *testing.T) {
	sc := xspan.SpanContext{
		TraceID:    testTraceID,
		SpanID:     testSpanID,
		TraceFlags: "01",
		TraceState: "congo=t61rcWkgMzE",
	}

	osc, ok := ToOTel(sc)
	if !ok {
		t.Fatal("valid context must convert")
	}
	if !osc.IsValid() || !osc.IsSampled() || !osc.IsRemote() {
		t.Errorf("otel context = %+v, want valid sampled remote", osc)
	}

	back := FromOTel(osc)
	if back.TraceID != sc.TraceID || back.SpanID != sc.SpanID || back.TraceFlags != sc.TraceFlags {
		t.Errorf("round-trip = %+v, want identity fields of %+v", back, sc)
	}
	if back.TraceState != sc.TraceState {
		t.Errorf("tracestate = %q, want %q", back.TraceState, sc.TraceState)
	}
}

func TestToOTelInvalid(t *testing.T) {
	if _, ok := ToOTel(xspan.SpanContext{}); ok {
		t.Error("zero context must not convert")
	}
	// 畸形 tracestate 静默丢弃，身份字段照常转换
	osc, ok := ToOTel(xspan.SpanContext{
		TraceID:    testTraceID,
		SpanID:     testSpanID,
		TraceFlags: "01",
		TraceState: "===not-a-tracestate===",
	})
	if !ok || !osc.IsValid() {
		t.Error("malformed tracestate must not block identity conversion")
	}
	if osc.TraceState().Len() != 0 {
		t.Error("malformed tracestate must be dropped")
	}
}

func TestOTelPropagatorBridge(t *testing.T) {
	bridge := NewOTelPropagator(propagation.TraceContext{})
	sc := xspan.SpanContext{TraceID: testTraceID, SpanID: testSpanID, TraceFlags: "01"}

	t.Run("inject then extract", func(t *testing.T) {
		h := make(http.Header)
		bridge.Inject(sc, HeaderCarrier(h))
		if h.Get(HeaderTraceparent) != testTraceparent {
			t.Errorf("bridge inject = %q, want %q", h.Get(HeaderTraceparent), testTraceparent)
		}

		got, ok := bridge.Extract(HeaderCarrier(h))
		if !ok || got.TraceID != testTraceID || got.SpanID != testSpanID {
			t.Errorf("bridge extract = (%+v, %v)", got, ok)
		}
	})

	t.Run("guard", func(t *testing.T) {
		h := make(http.Header)
		h.Set(HeaderTraceparent, testTraceparent)
		bridge.Inject(xspan.SpanContext{
			TraceID:    "11111111111111111111111111111111",
			SpanID:     "2222222222222222",
			TraceFlags: "01",
		}, HeaderCarrier(h))
		if h.Get(HeaderTraceparent) != testTraceparent {
			t.Error("bridge must honor the double-injection guard")
		}
	})

	t.Run("absent", func(t *testing.T) {
		if _, ok := bridge.Extract(HeaderCarrier(make(http.Header))); ok {
			t.Error("bridge must report absent on empty headers")
		}
	})

	t.Run("nil inner defaults", func(t *testing.T) {
		def := NewOTelPropagator(nil)
		h := make(http.Header)
		def.Inject(sc, HeaderCarrier(h))
		if h.Get(HeaderTraceparent) == "" {
			t.Error("default composite propagator must write traceparent")
		}
	})
}
