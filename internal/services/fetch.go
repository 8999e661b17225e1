package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/r1cA18/make-slide-script/internal/config"
	"github.com/r1cA18/make-slide-script/internal/storage"
)

// FetchedDeck is the raw deck as delivered by the remote host.
type FetchedDeck struct {
	Data        []byte
	ContentType string
}

type DeckFetcher interface {
	Fetch(ctx context.Context, url string) (FetchedDeck, error)
}

type HTTPFetcher struct {
	reqTimeout time.Duration
	maxBytes   int64
	httpClient *http.Client
}

func NewHTTPFetcher(cfg config.Config) *HTTPFetcher {
	return &HTTPFetcher{
		reqTimeout: cfg.FetchTimeout,
		maxBytes:   cfg.MaxUploadBytes,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
	}
}

// Fetch downloads the deck. Every failure wraps ErrTransport.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (FetchedDeck, error) {
	if strings.TrimSpace(url) == "" {
		return FetchedDeck{}, fmt.Errorf("%w: download url is empty", ErrTransport)
	}

	if f.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.reqTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchedDeck{}, fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return FetchedDeck{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return FetchedDeck{}, fmt.Errorf("%w: failed to download file: status %d", ErrTransport, resp.StatusCode)
	}

	data, err := storage.ReadLimited(resp.Body, f.maxBytes)
	if err != nil {
		return FetchedDeck{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return FetchedDeck{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// FetchFunc adapts a function to DeckFetcher.
type FetchFunc func(ctx context.Context, url string) (FetchedDeck, error)

func (fn FetchFunc) Fetch(ctx context.Context, url string) (FetchedDeck, error) {
	return fn(ctx, url)
}

// ReadDeck wraps already-available bytes, e.g. from an upload or local file.
func ReadDeck(r io.Reader, contentType string, limit int64) (FetchedDeck, error) {
	data, err := storage.ReadLimited(r, limit)
	if err != nil {
		return FetchedDeck{}, err
	}
	return FetchedDeck{Data: data, ContentType: contentType}, nil
}
