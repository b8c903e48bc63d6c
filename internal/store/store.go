// Package store persists finished scans so they can be listed, re-fetched
// and exported after the fact.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/raysh454/siteaudit/internal/model"
)

var ErrNotFound = errors.New("store: scan not found")

// Entry is a stored scan with its identity and lifecycle metadata.
type Entry struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Result    model.ScanResult `json:"result"`
}

// Summary is the listing view: identity and headline scores, no check detail.
type Summary struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	CreatedAt     time.Time `json:"created_at"`
	Security      int       `json:"security"`
	Performance   int       `json:"performance"`
	SEO           int       `json:"seo"`
	Accessibility int       `json:"accessibility"`
}

// Store is the persistence surface for finished scans.
type Store interface {
	Put(ctx context.Context, id string, result model.ScanResult) error
	Get(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
