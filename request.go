package lidar

import (
	"context"
	"net/http"
)

// DefaultUserAgent is sent with every tile request.
const DefaultUserAgent = "lidar/1.0"

// Header is an extra request header.
type Header struct {
	Key   string
	Value string
}

// NewRequest returns a new http.Request and error if any.
func NewRequest(ctx context.Context, method, URL string, header []Header) (*http.Request, error) {

	req, err := http.NewRequestWithContext(ctx, method, URL, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", DefaultUserAgent)

	for _, h := range header {
		req.Header.Set(h.Key, h.Value)
	}

	return req, nil
}
