package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"xposter/internal/source"
	"xposter/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler) *source.WordPressClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithSourceBaseURL(server.URL))
	client, err := source.NewWordPressClient(cfg)
	if err != nil {
		t.Fatalf("NewWordPressClient: %v", err)
	}
	return client
}

func TestGetItemDecodesRenderedFields(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/posts/12" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": 12,
			"date_gmt": "2026-08-01T09:30:00",
			"link": "https://blog.example.test/hello-world",
			"title": {"rendered": "Hello &amp; Goodbye"},
			"excerpt": {"rendered": "<p>First paragraph of the post.</p>\n"},
			"status": "publish",
			"featured_media": 0
		}`))
	}))

	item, err := client.GetItem(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Title != "Hello & Goodbye" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Excerpt != "First paragraph of the post." {
		t.Fatalf("unexpected excerpt %q", item.Excerpt)
	}
	if item.Link != "https://blog.example.test/hello-world" {
		t.Fatalf("unexpected link %q", item.Link)
	}
	if item.MediaPath != "" {
		t.Fatalf("expected no media path, got %q", item.MediaPath)
	}
	want := time.Date(2026, time.August, 1, 9, 30, 0, 0, time.UTC)
	if !item.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published time %v", item.PublishedAt)
	}
}

func TestGetItemNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_post_invalid_id"}`, http.StatusNotFound)
	}))

	_, err := client.GetItem(context.Background(), 404)
	if !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetItemDownloadsFeaturedMedia(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/posts/5", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 5,
			"link": "https://blog.example.test/with-image",
			"title": {"rendered": "With image"},
			"excerpt": {"rendered": ""},
			"featured_media": 31
		}`))
	})
	mux.HandleFunc("/wp-json/wp/v2/media/31", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 31, "source_url": "` + serverURL + `/uploads/cover.jpg"}`))
	})
	mux.HandleFunc("/uploads/cover.jpg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	serverURL = server.URL

	cfg := testsupport.NewConfig(t, testsupport.WithSourceBaseURL(server.URL))
	client, err := source.NewWordPressClient(cfg)
	if err != nil {
		t.Fatalf("NewWordPressClient: %v", err)
	}

	item, err := client.GetItem(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.MediaPath == "" {
		t.Fatal("expected media path to be set")
	}
	data, err := os.ReadFile(item.MediaPath)
	if err != nil {
		t.Fatalf("read cached media: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected media contents %q", data)
	}
}

func TestGetItemMediaFailureIsNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/posts/6", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 6,
			"link": "https://blog.example.test/broken-image",
			"title": {"rendered": "Broken image"},
			"excerpt": {"rendered": ""},
			"featured_media": 77
		}`))
	})
	mux.HandleFunc("/wp-json/wp/v2/media/77", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	})
	client := newTestClient(t, mux)

	item, err := client.GetItem(context.Background(), 6)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.MediaPath != "" {
		t.Fatalf("expected empty media path, got %q", item.MediaPath)
	}
}

func TestListPublishedSince(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/posts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("after") == "" {
			t.Error("expected after query parameter")
		}
		if query.Get("order") != "asc" {
			t.Errorf("expected ascending order, got %q", query.Get("order"))
		}
		_, _ = w.Write([]byte(`[
			{"id": 1, "link": "https://blog.example.test/a", "title": {"rendered": "A"}, "excerpt": {"rendered": ""}},
			{"id": 2, "link": "https://blog.example.test/b", "title": {"rendered": "B"}, "excerpt": {"rendered": ""}}
		]`))
	}))

	items, err := client.ListPublishedSince(context.Background(), time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListPublishedSince failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("unexpected items %#v", items)
	}
}
