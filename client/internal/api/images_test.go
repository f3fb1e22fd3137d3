package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListImages_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images":[{"name":"a.png","path":"images/a.png","annotated":true,"size":120,"modified":"2025-01-01T00:00:00"}]}`))
	}))
	defer srv.Close()
	got, err := ListImages(context.Background(), newTestTransport(srv.URL, nil))
	if err != nil || len(got.Images) != 1 || got.Images[0].Name != "a.png" || !got.Images[0].Annotated {
		t.Fatalf("ListImages unexpected: got=%+v err=%v", got, err)
	}
}

func TestDeleteImage_EscapesFilename(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method %s", r.Method)
		}
		if r.RequestURI != "/api/images/foo%20bar.png" {
			t.Errorf("request URI %q", r.RequestURI)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"deleted"}`))
	}))
	defer srv.Close()
	ack, err := DeleteImage(context.Background(), newTestTransport(srv.URL+"/api", nil), "foo bar.png")
	if err != nil || !ack.Success {
		t.Fatalf("DeleteImage unexpected: ack=%+v err=%v", ack, err)
	}
}

func TestDeleteImage_ReservedCharactersStayInOneSegment(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.RequestURI != "/api/images/a%20b%2Fc%23d.png" {
			t.Errorf("request URI %q", r.RequestURI)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()
	if _, err := DeleteImage(context.Background(), newTestTransport(srv.URL+"/api", nil), "a b/c#d.png"); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
}

func TestDeleteImage_DotSegmentsAreNotResolved(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]string{".": "/api/images/%2E", "..": "/api/images/%2E%2E"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.RequestURI != want {
				t.Errorf("DeleteImage(%q) request URI %q, want %q", name, r.RequestURI, want)
			}
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		_, err := DeleteImage(context.Background(), newTestTransport(srv.URL+"/api", nil), name)
		srv.Close()
		if err != nil {
			t.Fatalf("DeleteImage(%q): %v", name, err)
		}
	}
}

func TestImages_NonOKStatuses(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusInternalServerError)
		case http.MethodDelete:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()
	if _, err := ListImages(context.Background(), newTestTransport(srv.URL, nil)); err == nil {
		t.Fatal("expected error for ListImages non-2xx")
	}
	if _, err := DeleteImage(context.Background(), newTestTransport(srv.URL, nil), "x.png"); err == nil {
		t.Fatal("expected error for DeleteImage non-2xx")
	}
}

func TestImages_DecodeError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images": "nope"`))
	}))
	defer srv.Close()
	if _, err := ListImages(context.Background(), newTestTransport(srv.URL, nil)); err == nil {
		t.Fatal("expected decode error for ListImages")
	}
}
