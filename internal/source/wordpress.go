package source

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"xposter/internal/config"
)

const userAgent = "xposter/0.1.0"

// WordPressClient reads posts through the WordPress REST API and caches
// featured media locally so the pipeline can size-check attachments.
type WordPressClient struct {
	baseURL       string
	mediaCacheDir string
	client        *http.Client
}

// NewWordPressClient builds a client from the source config section.
func NewWordPressClient(cfg *config.Config) (*WordPressClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.Source.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("source base_url not configured")
	}

	timeout := time.Duration(cfg.Source.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WordPressClient{
		baseURL:       base,
		mediaCacheDir: cfg.Source.MediaCacheDir,
		client:        &http.Client{Timeout: timeout},
	}, nil
}

type wpRendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID            int64      `json:"id"`
	Date          string     `json:"date_gmt"`
	Link          string     `json:"link"`
	Title         wpRendered `json:"title"`
	Excerpt       wpRendered `json:"excerpt"`
	Status        string     `json:"status"`
	FeaturedMedia int64      `json:"featured_media"`
}

type wpMedia struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// GetItem fetches a single post by id. The featured image, when present, is
// downloaded into the media cache; a failed download leaves MediaPath empty
// rather than failing the item.
func (w *WordPressClient) GetItem(ctx context.Context, itemID int64) (*Item, error) {
	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/posts/%d", w.baseURL, itemID)

	var post wpPost
	if err := w.getJSON(ctx, endpoint, &post); err != nil {
		return nil, err
	}

	item := postToItem(post)
	if post.FeaturedMedia > 0 {
		if mediaPath, err := w.fetchMedia(ctx, post.FeaturedMedia); err == nil {
			item.MediaPath = mediaPath
		}
	}
	return item, nil
}

// ListPublishedSince returns published posts newer than the given time,
// oldest first. Media is not resolved here; GetItem handles that when the
// item is actually published.
func (w *WordPressClient) ListPublishedSince(ctx context.Context, since time.Time) ([]*Item, error) {
	query := url.Values{}
	query.Set("status", "publish")
	query.Set("orderby", "date")
	query.Set("order", "asc")
	query.Set("per_page", "50")
	if !since.IsZero() {
		query.Set("after", since.UTC().Format(time.RFC3339))
	}
	endpoint := w.baseURL + "/wp-json/wp/v2/posts?" + query.Encode()

	var posts []wpPost
	if err := w.getJSON(ctx, endpoint, &posts); err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(posts))
	for _, post := range posts {
		items = append(items, postToItem(post))
	}
	return items, nil
}

func (w *WordPressClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build source request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("source returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode source response: %w", err)
	}
	return nil
}

// fetchMedia resolves a media attachment and downloads it into the cache.
// Repeated calls for the same attachment reuse the cached file.
func (w *WordPressClient) fetchMedia(ctx context.Context, mediaID int64) (string, error) {
	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/media/%d", w.baseURL, mediaID)

	var media wpMedia
	if err := w.getJSON(ctx, endpoint, &media); err != nil {
		return "", err
	}
	if media.SourceURL == "" {
		return "", fmt.Errorf("media %d has no source url", mediaID)
	}

	ext := path.Ext(media.SourceURL)
	if ext == "" {
		ext = ".bin"
	}
	target := filepath.Join(w.mediaCacheDir, strconv.FormatInt(mediaID, 10)+ext)
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	if err := os.MkdirAll(w.mediaCacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create media cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, media.SourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("build media request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download media %d: %w", mediaID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("media download returned %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(w.mediaCacheDir, "download-*")
	if err != nil {
		return "", fmt.Errorf("create media temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close media file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("move media into cache: %w", err)
	}
	return target, nil
}

func postToItem(post wpPost) *Item {
	item := &Item{
		ID:      post.ID,
		Title:   cleanHTML(post.Title.Rendered),
		Excerpt: cleanHTML(post.Excerpt.Rendered),
		Link:    post.Link,
	}
	if post.Date != "" {
		// date_gmt has no offset suffix in the REST payload.
		if published, err := time.Parse("2006-01-02T15:04:05", post.Date); err == nil {
			item.PublishedAt = published.UTC()
		} else if published, err := time.Parse(time.RFC3339, post.Date); err == nil {
			item.PublishedAt = published.UTC()
		}
	}
	return item
}

// cleanHTML strips markup and decodes entities from rendered WordPress
// fields, which arrive as HTML fragments.
func cleanHTML(fragment string) string {
	var b strings.Builder
	inTag := false
	for _, r := range fragment {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
