// Package dataset obtains the raw bytes of the columnar dataset. It
// never touches storage credentials: it asks an issuer for a presigned
// URL and fetches the bytes from there.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kajiwara22/sf6chapter/internal/duck"
	"github.com/kajiwara22/sf6chapter/models"
)

// URLIssuer hands out a time-limited fetch URL for a logical file key.
type URLIssuer interface {
	IssueURL(ctx context.Context, key string) (url string, expiresIn int, err error)
}

// HTTPIssuer resolves keys through a presigned-URL endpoint that
// returns {url, expiresIn} JSON, the contract the web client uses.
type HTTPIssuer struct {
	// BaseURL is the API root, e.g. "https://sf6chapter.example.com/api/data".
	BaseURL string
	Client  *http.Client
}

func (h *HTTPIssuer) IssueURL(ctx context.Context, key string) (string, int, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := h.BaseURL + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("presigned URL endpoint returned %d", resp.StatusCode)
	}

	var body models.PresignedURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, err
	}
	if body.URL == "" {
		return "", 0, fmt.Errorf("presigned URL endpoint returned empty url")
	}
	return body.URL, body.ExpiresIn, nil
}

// Loader downloads dataset bytes through an issuer. Every network
// fault on this path is a dataset load failure: the session can not
// come up without the bytes.
type Loader struct {
	Issuer URLIssuer
	Client *http.Client
	Log    *logrus.Logger
}

// Fetch issues a URL for key and downloads the object body.
func (l *Loader) Fetch(ctx context.Context, key string) ([]byte, error) {
	url, expiresIn, err := l.Issuer.IssueURL(ctx, key)
	if err != nil {
		return nil, &duck.LoadError{Err: fmt.Errorf("issue URL for %s: %w", key, err)}
	}
	l.Log.WithFields(logrus.Fields{"key": key, "expires_in": expiresIn}).Info("Got presigned dataset URL")

	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &duck.LoadError{Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &duck.LoadError{Err: fmt.Errorf("download %s: %w", key, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &duck.LoadError{Err: fmt.Errorf("download %s: status %d", key, resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &duck.LoadError{Err: fmt.Errorf("read %s body: %w", key, err)}
	}
	l.Log.WithFields(logrus.Fields{"key": key, "bytes": len(data)}).Info("Dataset downloaded")
	return data, nil
}
