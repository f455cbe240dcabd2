package dataset

import (
	"context"
	"time"

	"github.com/kajiwara22/sf6chapter/internal/storage"
)

// PresignIssuer issues URLs straight from the storage client,
// skipping the HTTP hop when loader and storage run in one process.
type PresignIssuer struct {
	Storage *storage.Client
	Expiry  time.Duration
}

func (p *PresignIssuer) IssueURL(ctx context.Context, key string) (string, int, error) {
	expiry := p.Expiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	url, err := p.Storage.PresignedGet(ctx, key, expiry)
	if err != nil {
		return "", 0, err
	}
	return url, int(expiry.Seconds()), nil
}
