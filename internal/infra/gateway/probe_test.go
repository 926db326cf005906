package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProberReachable(t *testing.T) {
	heads := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe must be metadata-only, got %s", r.Method)
		}
		heads++
	}))
	defer srv.Close()

	p := NewHTTPProber(time.Second, nil)
	if !p.Reachable(context.Background(), srv.URL+"/asset.jpg") {
		t.Fatalf("expected reachable")
	}
	if heads != 1 {
		t.Fatalf("expected one HEAD, got %d", heads)
	}
}

func TestProberUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProber(time.Second, nil)
	if p.Reachable(context.Background(), srv.URL+"/gone.jpg") {
		t.Fatalf("404 must count as unreachable")
	}
	if p.Reachable(context.Background(), "http://127.0.0.1:1/nope.jpg") {
		t.Fatalf("connection failure must count as unreachable")
	}
}

func TestBlobPersistCopy(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpegbytes"))
	}))
	defer source.Close()

	var uploaded []byte
	blob := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "image/jpeg" {
			t.Errorf("content type not forwarded")
		}
		uploaded, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"url":"https://blobs.example.com/copy.jpg"}`))
	}))
	defer blob.Close()

	g := NewBlobGateway(blob.URL, time.Second)
	url, err := g.PersistCopy(context.Background(), source.URL+"/src.jpg")
	if err != nil {
		t.Fatalf("persist copy: %v", err)
	}
	if url != "https://blobs.example.com/copy.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
	if string(uploaded) != "jpegbytes" {
		t.Fatalf("unexpected upload body %q", uploaded)
	}
}

func TestBlobPersistCopySourceGone(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer source.Close()

	g := NewBlobGateway("https://blobs.example.com/upload", time.Second)
	if _, err := g.PersistCopy(context.Background(), source.URL+"/src.jpg"); err == nil {
		t.Fatalf("expected error for dead source")
	}
}

func TestBlobPersistCopyUnconfigured(t *testing.T) {
	g := NewBlobGateway("", time.Second)
	if _, err := g.PersistCopy(context.Background(), "https://cdn.example.com/a.jpg"); err == nil {
		t.Fatalf("expected error when blob storage is not configured")
	}
}
