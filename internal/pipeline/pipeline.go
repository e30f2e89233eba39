// Package pipeline turns a queued item id into a published post. It fetches
// the item, renders the share message and posts it, attaching featured media
// when possible. The pipeline never touches the queue; callers own state
// transitions.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"xposter/internal/content"
	"xposter/internal/logging"
	"xposter/internal/publisher"
	"xposter/internal/source"
)

// MaxMediaBytes is the largest attachment the publisher accepts.
const MaxMediaBytes = 5 * 1024 * 1024

// Media problems are reported on the result but never fail the publish.
var (
	ErrMediaMissing  = errors.New("media file missing")
	ErrMediaTooLarge = errors.New("media file exceeds size limit")
)

// ErrItemNotFound reports that the queued id no longer resolves upstream.
var ErrItemNotFound = errors.New("item not found at source")

// Result describes one publish attempt.
type Result struct {
	ItemID        int64
	PostID        string
	Text          string
	MediaAttached bool

	// MediaErr records a skipped attachment; the post itself succeeded.
	MediaErr error
}

// Pipeline publishes single items.
type Pipeline struct {
	source    source.Source
	publisher publisher.Publisher
	formatter *content.Formatter
	logger    *slog.Logger
}

// New assembles a pipeline. A nil logger falls back to a noop logger.
func New(src source.Source, pub publisher.Publisher, formatter *content.Formatter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		source:    src,
		publisher: pub,
		formatter: formatter,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Publish runs one attempt for itemID. Errors from the source or the
// publisher propagate; media problems are swallowed into Result.MediaErr so
// a text-only post still goes out.
func (p *Pipeline) Publish(ctx context.Context, itemID int64) (*Result, error) {
	item, err := p.source.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
		}
		return nil, fmt.Errorf("fetch item %d: %w", itemID, err)
	}

	text := p.formatter.Render(content.Fields{
		Title:   item.Title,
		Excerpt: item.Excerpt,
		Link:    item.Link,
	})

	result := &Result{ItemID: itemID, Text: text}

	var mediaIDs []string
	if item.MediaPath != "" {
		mediaID, mediaErr := p.uploadMedia(ctx, item.MediaPath)
		if mediaErr != nil {
			result.MediaErr = mediaErr
			p.logger.Warn("skipping media attachment",
				logging.Int64(logging.FieldItemID, itemID),
				logging.Error(mediaErr))
		} else {
			mediaIDs = append(mediaIDs, mediaID)
		}
	}

	post, err := p.publisher.Post(ctx, text, mediaIDs)
	if err != nil {
		return nil, fmt.Errorf("publish item %d: %w", itemID, err)
	}

	result.PostID = post.PostID
	result.MediaAttached = len(mediaIDs) > 0
	p.logger.Info("item published",
		logging.Int64(logging.FieldItemID, itemID),
		logging.String("post_id", post.PostID),
		logging.Bool("media_attached", result.MediaAttached))
	return result, nil
}

func (p *Pipeline) uploadMedia(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrMediaMissing)
		}
		return "", fmt.Errorf("stat media: %w", err)
	}
	if info.Size() > MaxMediaBytes {
		return "", fmt.Errorf("%s is %d bytes: %w", path, info.Size(), ErrMediaTooLarge)
	}
	return p.publisher.UploadMedia(ctx, path)
}
