package lidar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBadStatus is returned for non-2xx responses.
var ErrBadStatus = errors.New("response status code is not ok")

// DefaultClient is shared by every HTTPFetcher created without a client.
var DefaultClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	},
}

// Fetcher returns the full body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, URL string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, URL string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, URL string) ([]byte, error) {
	return f(ctx, URL)
}

// HTTPFetcher fetches tiles with a GET request.
type HTTPFetcher struct {
	Client *http.Client

	// Timeout bounds a single request, body included. Zero means none.
	Timeout time.Duration

	Header []Header
}

// NewHTTPFetcher returns a fetcher using client, or DefaultClient when nil.
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {

	if client == nil {
		client = DefaultClient
	}

	return &HTTPFetcher{Client: client, Timeout: timeout}
}

// Fetch downloads URL and reads the whole body.
func (f *HTTPFetcher) Fetch(ctx context.Context, URL string) ([]byte, error) {

	var (
		err error
		req *http.Request
		res *http.Response
	)

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	if req, err = NewRequest(ctx, http.MethodGet, URL, f.Header); err != nil {
		return nil, err
	}

	client := f.Client
	if client == nil {
		client = DefaultClient
	}

	if res, err = client.Do(req); err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("%w: %d: %s", ErrBadStatus, res.StatusCode, URL)
	}

	body, err := io.ReadAll(res.Body)

	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", URL, err)
	}

	return body, nil
}
