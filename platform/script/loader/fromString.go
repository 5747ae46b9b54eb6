package loader

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/robbyt/go-compilepad/internal/helpers"
)

// FromString serves in-memory text, e.g. source passed on the command line.
type FromString struct {
	content   string
	sourceURL *url.URL
}

// NewFromString creates a loader for content. The content is trimmed of
// surrounding whitespace and must be non-empty.
func NewFromString(content string) (*FromString, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrInputEmpty)
	}

	u, err := url.Parse("string://inline/" + helpers.ShortID(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create source URL: %w", err)
	}

	return &FromString{
		content:   content,
		sourceURL: u,
	}, nil
}

func (l *FromString) String() string {
	return fmt.Sprintf("loader.FromString{Chars: %d}", len(l.content))
}

func (l *FromString) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(l.content)), nil
}

// GetSourceURL returns the string:// URL naming this content.
func (l *FromString) GetSourceURL() *url.URL {
	return l.sourceURL
}
