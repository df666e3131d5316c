// Package remote implements the client for the remote blob endpoint that
// ledgers are synced against.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned by Get when no blob exists for the key.
var ErrNotFound = errors.New("there is no remote blob for this key")

// Blob is a remote ledger document together with its remote timestamp.
type Blob struct {
	Data      []byte
	UpdatedAt time.Time
}

// BlobStore is the remote side of the sync. It stores one opaque blob per
// key and has no partial update operation, every Put replaces the whole
// blob.
type BlobStore interface {
	// Get returns the blob for the key or ErrNotFound.
	Get(ctx context.Context, key string) (Blob, error)

	// Put replaces the blob for the key and returns the remote timestamp
	// of the write.
	Put(ctx context.Context, key string, data []byte) (time.Time, error)
}

// HTTPBlobStore talks to a blob endpoint over HTTP.
//
// Blobs live at {base}/blobs/{key}. GET returns the raw blob bytes, PUT
// replaces them. Both are authenticated with a static bearer token.
type HTTPBlobStore struct {
	base   string
	token  string
	client *http.Client
}

// NewHTTPBlobStore returns a blob store client for the given base URL.
func NewHTTPBlobStore(base, token string) *HTTPBlobStore {
	return &HTTPBlobStore{
		base:  base,
		token: token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (h *HTTPBlobStore) url(key string) string {
	return fmt.Sprintf("%s/blobs/%s", h.base, url.PathEscape(key))
}

func (h *HTTPBlobStore) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+h.token)

	res, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote blob request failed: %w", err)
	}

	return res, nil
}

func (h *HTTPBlobStore) Get(ctx context.Context, key string) (Blob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url(key), nil)
	if err != nil {
		return Blob{}, err
	}

	res, err := h.do(req)
	if err != nil {
		return Blob{}, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return Blob{}, ErrNotFound
	case res.StatusCode != http.StatusOK:
		return Blob{}, fmt.Errorf("remote blob store returned HTTP %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return Blob{}, err
	}

	return Blob{
		Data:      data,
		UpdatedAt: parseLastModified(res.Header.Get("Last-Modified")),
	}, nil
}

func (h *HTTPBlobStore) Put(ctx context.Context, key string, data []byte) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, h.url(key), bytes.NewReader(data))
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := h.do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusNoContent {
		return time.Time{}, fmt.Errorf("remote blob store returned HTTP %d", res.StatusCode)
	}

	return parseLastModified(res.Header.Get("Last-Modified")), nil
}

// parseLastModified falls back to the local clock when the remote does not
// report a timestamp.
func parseLastModified(value string) time.Time {
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Now().In(time.UTC)
	}

	return t.In(time.UTC)
}
