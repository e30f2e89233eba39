package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xposter/internal/config"
)

const userAgent = "xposter/0.1.0"

// TwitterClient talks to the X API: v2 for posting and credential checks,
// the v1.1 upload host for media.
type TwitterClient struct {
	apiBaseURL    string
	uploadBaseURL string
	token         string
	client        *http.Client
}

// NewTwitterClient builds a client from the twitter config section.
func NewTwitterClient(cfg *config.Config) (*TwitterClient, error) {
	token := strings.TrimSpace(cfg.Twitter.BearerToken)
	if token == "" {
		return nil, errors.New("twitter bearer token not configured")
	}

	timeout := time.Duration(cfg.Twitter.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &TwitterClient{
		apiBaseURL:    strings.TrimRight(cfg.Twitter.APIBaseURL, "/"),
		uploadBaseURL: strings.TrimRight(cfg.Twitter.UploadBaseURL, "/"),
		token:         token,
		client:        &http.Client{Timeout: timeout},
	}, nil
}

// VerifyCredentials performs a users/me lookup to confirm the token works.
func (t *TwitterClient) VerifyCredentials(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.apiBaseURL+"/2/users/me", nil)
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	t.setHeaders(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return classifyTransportError("verify credentials", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return rejectionError("verify credentials", resp)
	}

	var payload struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}
	if payload.Data.ID == "" {
		return fmt.Errorf("verify credentials: no user in response: %w", ErrRejected)
	}
	return nil
}

// UploadMedia sends the file at path to the upload host and returns the
// media id string to attach to a post.
func (t *TwitterClient) UploadMedia(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open media file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read media file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uploadBaseURL+"/1.1/media/upload.json", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	t.setHeaders(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", classifyTransportError("upload media", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", rejectionError("upload media", resp)
	}

	var payload struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.MediaIDString == "" {
		return "", fmt.Errorf("upload media: no media id in response: %w", ErrRejected)
	}
	return payload.MediaIDString, nil
}

// Post creates a tweet with the given text and optional media attachments.
func (t *TwitterClient) Post(ctx context.Context, text string, mediaIDs []string) (*PostResult, error) {
	type mediaPayload struct {
		MediaIDs []string `json:"media_ids"`
	}
	payload := struct {
		Text  string        `json:"text"`
		Media *mediaPayload `json:"media,omitempty"`
	}{Text: text}
	if len(mediaIDs) > 0 {
		payload.Media = &mediaPayload{MediaIDs: mediaIDs}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode tweet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiBaseURL+"/2/tweets", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build tweet request: %w", err)
	}
	t.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, classifyTransportError("post tweet", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, rejectionError("post tweet", resp)
	}

	var result struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode tweet response: %w", err)
	}
	if result.Data.ID == "" {
		msg := "unknown error"
		if len(result.Errors) > 0 && result.Errors[0].Message != "" {
			msg = result.Errors[0].Message
		}
		return nil, fmt.Errorf("post tweet: %s: %w", msg, ErrRejected)
	}

	return &PostResult{PostID: result.Data.ID, Text: result.Data.Text}, nil
}

func (t *TwitterClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", userAgent)
}

func classifyTransportError(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %v: %w", op, err, ErrUnreachable)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%s: %v: %w", op, err, ErrUnreachable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func rejectionError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = resp.Status
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s: status %d: %s: %w", op, resp.StatusCode, detail, ErrUnreachable)
	}
	return fmt.Errorf("%s: status %d: %s: %w", op, resp.StatusCode, detail, ErrRejected)
}
