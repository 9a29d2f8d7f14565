package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/logitlab/server/netsvr/middleware"
)

var payload = strings.Repeat(`{"coefficients":[0.125,-0.5,1.75]}`, 64)

func serve(h http.Handler, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/setting", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	})
}

func TestCompressionGzip(t *testing.T) {
	rec := serve(middleware.Compression(jsonHandler()), "gzip, deflate")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("encoding got %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, _ := io.ReadAll(zr)
	if string(got) != payload {
		t.Fatalf("payload mismatch")
	}
}

func TestCompressionZstdPreferred(t *testing.T) {
	rec := serve(middleware.Compression(jsonHandler()), "gzip, zstd")
	if rec.Header().Get("Content-Encoding") != "zstd" {
		t.Fatalf("encoding got %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := zstd.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()
	got, _ := io.ReadAll(zr)
	if string(got) != payload {
		t.Fatalf("payload mismatch")
	}
}

func TestCompressionSkipsNoBody(t *testing.T) {
	h := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := serve(h, "gzip")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 || rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("204 got body=%d encoding=%q", rec.Body.Len(), rec.Header().Get("Content-Encoding"))
	}
	rec = serve(middleware.Compression(jsonHandler()), "")
	if rec.Body.String() != payload {
		t.Fatalf("uncompressed payload mismatch")
	}
}

func TestRecoverAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("bad row") })
	h := middleware.RequestID(middleware.AccessLog(log)(middleware.Recover(log)(boom)))

	rec := serve(h, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"request_id"`) || rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("request id missing: %s", rec.Body.String())
	}
	out := buf.String()
	if !strings.Contains(out, "http.panic") || !strings.Contains(out, "http.access") || !strings.Contains(out, "status=500") {
		t.Fatalf("log output:\n%s", out)
	}
}
