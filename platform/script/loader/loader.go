// Package loader reads program text and plugin binaries from strings, local
// files and HTTP servers.
package loader

import (
	"fmt"
	"io"
	"net/url"
)

// Loader provides the content of one source.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

// ReadAll drains a loader into memory.
func ReadAll(l Loader) ([]byte, error) {
	if l == nil {
		return nil, ErrInputEmpty
	}
	reader, err := l.GetReader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.GetSourceURL(), err)
	}
	return content, nil
}
