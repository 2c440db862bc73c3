package xprop

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

const (
	testTraceparent = "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"
	testTraceID     = "0af7651916cd43dd8448eb211c80319c"
	testSpanID      = "b7ad6b7169203331"
)

func TestParseTraceparent(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		sc, ok := ParseTraceparent(testTraceparent)
		if !ok {
			t.Fatal("valid traceparent must parse")
		}
		if sc.TraceID != testTraceID {
			t.Errorf("trace id = %q, want %q", sc.TraceID, testTraceID)
		}
		if sc.SpanID != testSpanID {
			t.Errorf("span id = %q, want %q", sc.SpanID, testSpanID)
		}
		if sc.TraceFlags != "01" {
			t.Errorf("flags = %q, want 01", sc.TraceFlags)
		}
	})

	t.Run("uppercase normalized", func(t *testing.T) {
		sc, ok := ParseTraceparent(strings.ToUpper(testTraceparent)[:2] + testTraceparent[2:])
		if !ok || sc.TraceID != testTraceID {
			t.Error("uppercase version must be tolerated")
		}
		sc, ok = ParseTraceparent("00-" + strings.ToUpper(testTraceID) + "-" + testSpanID + "-01")
		if !ok {
			t.Fatal("uppercase trace id must be tolerated on the parse side")
		}
		if sc.TraceID != testTraceID {
			t.Errorf("parsed trace id must be lowercased, got %q", sc.TraceID)
		}
	})

	t.Run("forward compat", func(t *testing.T) {
		// 未知版本（> 00）：按 v00 解析前 4 个字段，忽略扩展字段
		if _, ok := ParseTraceparent("01-" + testTraceID + "-" + testSpanID + "-01-extra"); !ok {
			t.Error("unknown version with dash-separated extra fields must parse")
		}
		if _, ok := ParseTraceparent("01-" + testTraceID + "-" + testSpanID + "-01"); !ok {
			t.Error("unknown version at exactly 55 chars must parse")
		}
		// version 00 不允许额外字段
		if _, ok := ParseTraceparent(testTraceparent + "-extra"); ok {
			t.Error("version 00 with extra fields must be rejected")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		malformed := []string{
			"",
			"00",
			"00-" + testTraceID,                                   // 缺段
			"00-" + testTraceID + "-" + testSpanID,                 // 缺 flags
			"ff-" + testTraceID + "-" + testSpanID + "-01",         // 保留版本
			"FF-" + testTraceID + "-" + testSpanID + "-01",         // 保留版本（大写）
			"0g-" + testTraceID + "-" + testSpanID + "-01",         // 版本非十六进制
			"00-" + testTraceID[:31] + "-" + testSpanID + "-01x",   // 字段宽度错误
			"00-" + strings.Repeat("0", 32) + "-" + testSpanID + "-01", // 全零 trace id
			"00-" + testTraceID + "-" + strings.Repeat("0", 16) + "-01", // 全零 span id
			"00-" + strings.Repeat("z", 32) + "-" + testSpanID + "-01",  // 非十六进制
			"00_" + testTraceID + "_" + testSpanID + "_01",         // 错误分隔符
			"00-" + testTraceID + "-" + testSpanID + "-0z",         // flags 非十六进制
		}
		for _, header := range malformed {
			if _, ok := ParseTraceparent(header); ok {
				t.Errorf("ParseTraceparent(%q) = ok, want rejection", header)
			}
		}
	})
}

func TestFormatTraceparent(t *testing.T) {
	sc := xspan.SpanContext{TraceID: testTraceID, SpanID: testSpanID, TraceFlags: "01"}
	if got := FormatTraceparent(sc); got != testTraceparent {
		t.Errorf("FormatTraceparent = %q, want %q", got, testTraceparent)
	}

	// 无效身份不产出头
	if got := FormatTraceparent(xspan.SpanContext{}); got != "" {
		t.Errorf("invalid context must format to empty, got %q", got)
	}

	// flags 缺失回退 "00"
	sc.TraceFlags = ""
	if got := FormatTraceparent(sc); !strings.HasSuffix(got, "-00") {
		t.Errorf("missing flags must default to 00, got %q", got)
	}

	// 输出统一小写
	upper := xspan.SpanContext{
		TraceID:    strings.ToUpper(testTraceID),
		SpanID:     strings.ToUpper(testSpanID),
		TraceFlags: "01",
	}
	if got := FormatTraceparent(upper); got != testTraceparent {
		t.Errorf("output must be lowercase, got %q", got)
	}
}

// 往返律：合法头经 Extract 再 Inject 必须逐字节还原身份字段，
// tracestate 原样保留。
func TestRoundTrip(t *testing.T) {
	var codec TraceContext

	in := make(http.Header)
	in.Set(HeaderTraceparent, testTraceparent)
	in.Set(HeaderTracestate, "congo=t61rcWkgMzE,rojo=00f067aa0ba902b7")

	sc, ok := codec.Extract(HeaderCarrier(in))
	if !ok {
		t.Fatal("extract failed on valid headers")
	}

	out := make(http.Header)
	codec.Inject(sc, HeaderCarrier(out))

	if got := out.Get(HeaderTraceparent); got != testTraceparent {
		t.Errorf("round-trip traceparent = %q, want byte-identical %q", got, testTraceparent)
	}
	if got := out.Get(HeaderTracestate); got != "congo=t61rcWkgMzE,rojo=00f067aa0ba902b7" {
		t.Errorf("tracestate not preserved verbatim: %q", got)
	}
}

func TestExtractSoftFailure(t *testing.T) {
	var codec TraceContext

	t.Run("absent header", func(t *testing.T) {
		if _, ok := codec.Extract(HeaderCarrier(make(http.Header))); ok {
			t.Error("absent header must extract as absent")
		}
	})

	t.Run("nil carrier", func(t *testing.T) {
		if _, ok := codec.Extract(nil); ok {
			t.Error("nil carrier must extract as absent")
		}
	})

	t.Run("tracestate dropped without traceparent", func(t *testing.T) {
		h := make(http.Header)
		h.Set(HeaderTracestate, "vendor=foo")
		if _, ok := codec.Extract(HeaderCarrier(h)); ok {
			t.Error("tracestate alone must not yield a context")
		}
	})
}

func TestInjectGuard(t *testing.T) {
	var codec TraceContext
	sc := xspan.SpanContext{TraceID: testTraceID, SpanID: testSpanID, TraceFlags: "01"}

	t.Run("idempotent", func(t *testing.T) {
		h := make(http.Header)
		codec.Inject(sc, HeaderCarrier(h))
		first := h.Get(HeaderTraceparent)
		codec.Inject(sc, HeaderCarrier(h))
		if h.Get(HeaderTraceparent) != first {
			t.Error("repeated injection must be byte-identical")
		}
		if len(h.Values(HeaderTraceparent)) != 1 {
			t.Error("repeated injection must not duplicate the header")
		}
	})

	t.Run("already instrumented", func(t *testing.T) {
		h := make(http.Header)
		h.Set(HeaderTraceparent, testTraceparent)
		other := xspan.SpanContext{
			TraceID:    "11111111111111111111111111111111",
			SpanID:     "2222222222222222",
			TraceFlags: "01",
			TraceState: "vendor=bar",
		}
		codec.Inject(other, HeaderCarrier(h))
		if h.Get(HeaderTraceparent) != testTraceparent {
			t.Error("existing traceparent must not be overwritten")
		}
		if h.Get(HeaderTracestate) != "" {
			t.Error("guard must skip tracestate too")
		}
	})

	t.Run("invalid context writes nothing", func(t *testing.T) {
		h := make(http.Header)
		codec.Inject(xspan.SpanContext{TraceID: "bogus"}, HeaderCarrier(h))
		if len(h) != 0 {
			t.Errorf("invalid context must not write headers, got %v", h)
		}
	})
}

func TestMapCarrier(t *testing.T) {
	var codec TraceContext
	mc := MapCarrier{}
	sc := xspan.SpanContext{TraceID: testTraceID, SpanID: testSpanID, TraceFlags: "01", TraceState: "a=b"}

	codec.Inject(sc, mc)
	if mc[HeaderTraceparent] != testTraceparent {
		t.Errorf("map carrier traceparent = %q", mc[HeaderTraceparent])
	}

	got, ok := codec.Extract(mc)
	if !ok || got.TraceID != testTraceID || got.TraceState != "a=b" {
		t.Errorf("map carrier extract = (%+v, %v)", got, ok)
	}

	keys := mc.Keys()
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 entries", keys)
	}
}
