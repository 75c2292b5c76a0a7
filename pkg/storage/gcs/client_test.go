package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newStubClient(t *testing.T, handler roundTripFunc) *Client {
	t.Helper()
	return &Client{
		defaultBucket: "bucket",
		tokenSource: &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
			return "token", time.Now().Add(time.Hour), nil
		}},
		httpClient: &http.Client{Transport: handler},
	}
}

func TestUploadObjectSuccess(t *testing.T) {
	t.Parallel()

	var gotBody string
	client := newStubClient(t, func(req *http.Request) *http.Response {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		if req.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
		}
		if !strings.Contains(req.URL.String(), "uploadType=media") {
			t.Fatalf("unexpected upload url %s", req.URL)
		}
		b, _ := io.ReadAll(req.Body)
		gotBody = string(b)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"name":"products/file.png"}`)),
			Header:     http.Header{},
		}
	})

	url, err := client.UploadObject(context.Background(), "", "products/file.png", "image/png", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("UploadObject: %v", err)
	}
	if gotBody != "payload" {
		t.Fatalf("expected body forwarded, got %q", gotBody)
	}
	if url != "https://storage.googleapis.com/bucket/products/file.png" {
		t.Fatalf("unexpected public url %s", url)
	}
}

func TestUploadObjectFailure(t *testing.T) {
	t.Parallel()

	client := newStubClient(t, func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Body:       io.NopCloser(strings.NewReader("denied")),
			Header:     http.Header{},
		}
	})

	if _, err := client.UploadObject(context.Background(), "", "products/file.png", "image/png", strings.NewReader("payload")); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestDeleteObjectNotFound(t *testing.T) {
	t.Parallel()

	client := newStubClient(t, func(req *http.Request) *http.Response {
		if req.Method != http.MethodDelete {
			t.Fatalf("expected DELETE, got %s", req.Method)
		}
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}
	})

	if err := client.DeleteObject(context.Background(), "bucket", "products/file.png"); err != nil {
		t.Fatalf("DeleteObject not found should succeed: %v", err)
	}
}

func TestPublicURLWithBase(t *testing.T) {
	t.Parallel()

	client := &Client{defaultBucket: "bucket", publicBaseURL: "https://cdn.example.com"}
	if got := client.PublicURL("bucket", "products/a b.png"); got != "https://cdn.example.com/products/a%20b.png" {
		t.Fatalf("unexpected public url %s", got)
	}
}
