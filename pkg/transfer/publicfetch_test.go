package transfer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPublicFetchSuccess(t *testing.T) {
	payload := []byte("hello from the public internet")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(payload)
	}))
	defer srv.Close()

	f := NewPublicFetcher(5*time.Second, 1<<20)
	res, err := f.Fetch(context.Background(), srv.URL+"/greeting.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (%s)", res.Status, res.ErrorMessage)
	}
	if !bytes.Equal(res.Body, payload) {
		t.Fatal("body mismatch")
	}
	if res.ContentType != "text/plain" {
		t.Fatalf("content type = %q", res.ContentType)
	}
	if res.OriginalFilename != "greeting.txt" {
		t.Fatalf("filename = %q", res.OriginalFilename)
	}
}

func TestPublicFetchCorrectsMisreportedType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	f := NewPublicFetcher(5*time.Second, 1<<20)
	res, err := f.Fetch(context.Background(), srv.URL+"/data.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContentType != "application/json" {
		t.Fatalf("content type = %q, want extension correction", res.ContentType)
	}
}

func TestPublicFetchStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "not found"},
		{http.StatusForbidden, "access denied"},
		{http.StatusBadGateway, "status 502"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		f := NewPublicFetcher(5*time.Second, 1<<20)
		res, err := f.Fetch(context.Background(), srv.URL+"/thing")
		srv.Close()
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", tt.status, err)
		}
		if res.Status != StatusFailed || !strings.Contains(res.ErrorMessage, tt.want) {
			t.Fatalf("status %d: result = %+v", tt.status, res)
		}
	}
}

func TestPublicFetchSizeCeiling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 2048))
	}))
	defer srv.Close()

	f := NewPublicFetcher(5*time.Second, 1024)
	res, err := f.Fetch(context.Background(), srv.URL+"/big.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusFailed || !strings.Contains(res.ErrorMessage, "larger than") {
		t.Fatalf("result = %+v, want size-ceiling failure", res)
	}
}

func TestPublicFetchRejectsRelativeURL(t *testing.T) {
	f := NewPublicFetcher(time.Second, 1024)
	if _, err := f.Fetch(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestPublicFetchDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("root"))
	}))
	defer srv.Close()

	f := NewPublicFetcher(5*time.Second, 1<<20)
	res, err := f.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OriginalFilename != "downloaded_file" {
		t.Fatalf("filename = %q", res.OriginalFilename)
	}
}
