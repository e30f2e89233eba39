// Package publisher posts rendered messages to a social network.
package publisher

import (
	"context"
	"errors"
)

// Sentinel errors that let callers distinguish publish failures worth
// retrying from ones that need operator attention.
var (
	// ErrRejected means the remote service accepted the request but refused
	// the post (auth failure, duplicate, policy violation).
	ErrRejected = errors.New("post rejected by publisher")

	// ErrUnreachable means the remote service could not be reached at all.
	ErrUnreachable = errors.New("publisher unreachable")
)

// PostResult describes a successfully created post.
type PostResult struct {
	PostID string
	Text   string
}

// Publisher is the outbound surface the publish pipeline talks to.
type Publisher interface {
	// VerifyCredentials checks that the configured credentials are usable.
	VerifyCredentials(ctx context.Context) error

	// UploadMedia uploads the file at path and returns a media identifier
	// that Post can attach.
	UploadMedia(ctx context.Context, path string) (string, error)

	// Post publishes text with zero or more previously uploaded media ids.
	Post(ctx context.Context, text string, mediaIDs []string) (*PostResult, error)
}
