package publisher_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"xposter/internal/publisher"
	"xposter/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler) (*publisher.TwitterClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Twitter.APIBaseURL = server.URL
	cfg.Twitter.UploadBaseURL = server.URL

	client, err := publisher.NewTwitterClient(cfg)
	if err != nil {
		t.Fatalf("NewTwitterClient: %v", err)
	}
	return client, server
}

func TestPostSendsBearerTokenAndText(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/tweets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1881","text":"hello"}}`))
	}))

	result, err := client.Post(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if result.PostID != "1881" {
		t.Fatalf("unexpected post id %q", result.PostID)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["text"] != "hello" {
		t.Fatalf("unexpected body %#v", gotBody)
	}
	if _, ok := gotBody["media"]; ok {
		t.Fatal("expected no media block without attachments")
	}
}

func TestPostAttachesMediaIDs(t *testing.T) {
	var gotBody struct {
		Media struct {
			MediaIDs []string `json:"media_ids"`
		} `json:"media"`
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"1","text":"t"}}`))
	}))

	if _, err := client.Post(context.Background(), "t", []string{"m-1"}); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if len(gotBody.Media.MediaIDs) != 1 || gotBody.Media.MediaIDs[0] != "m-1" {
		t.Fatalf("unexpected media ids %#v", gotBody.Media.MediaIDs)
	}
}

func TestPostRejectedOnClientError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Forbidden"}`, http.StatusForbidden)
	}))

	_, err := client.Post(context.Background(), "nope", nil)
	if !errors.Is(err, publisher.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestPostUnreachableOnServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	_, err := client.Post(context.Background(), "hello", nil)
	if !errors.Is(err, publisher.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestPostUnreachableWhenConnectionRefused(t *testing.T) {
	client, server := newTestClient(t, http.NotFoundHandler())
	server.Close()

	_, err := client.Post(context.Background(), "hello", nil)
	if !errors.Is(err, publisher.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestUploadMedia(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1.1/media/upload.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("media"); err != nil {
			t.Errorf("missing media part: %v", err)
		}
		_, _ = w.Write([]byte(`{"media_id_string":"7001"}`))
	}))

	path := filepath.Join(t.TempDir(), "image.jpg")
	testsupport.WriteFile(t, path, 1024)

	mediaID, err := client.UploadMedia(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadMedia failed: %v", err)
	}
	if mediaID != "7001" {
		t.Fatalf("unexpected media id %q", mediaID)
	}
}

func TestVerifyCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/users/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"99","username":"bot"}}`))
	}))

	if err := client.VerifyCredentials(context.Background()); err != nil {
		t.Fatalf("VerifyCredentials failed: %v", err)
	}
}

func TestVerifyCredentialsRejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	err := client.VerifyCredentials(context.Background())
	if !errors.Is(err, publisher.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}
