// Package repository holds upload sessions in memory for the lifetime of
// the process.
package repository

import (
	"context"
	"time"

	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/segmentation"
)

// Files names the uploaded files of a session.
type Files struct {
	Evaluations   string `json:"evaluations"`
	Segmentations string `json:"segmentations,omitempty"`
}

// Segments summarises the segmentation directory of a session.
type Segments struct {
	Headers []string                     `json:"headers"`
	Users   int                          `json:"users"`
	Values  map[model.Dimension][]string `json:"values"`
}

// Session is one processed upload pair.
type Session struct {
	ID        string                  `json:"id"`
	CreatedAt time.Time               `json:"createdAt"`
	Files     Files                   `json:"files"`
	Result    model.ProcessingResult  `json:"result"`
	Analytics *model.AnalyticsResults `json:"analytics,omitempty"`
	Segments  Segments                `json:"segments"`
	// Directory backs per-value user queries. It is read-only once stored.
	Directory *segmentation.Directory `json:"-"`
}

// Summary is the listing view of a session.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Files     Files     `json:"files"`
	Success   bool      `json:"success"`
	Employees int       `json:"employees"`
}

// Store provides read/write access to upload sessions.
type Store interface {
	// Save stores s, evicting the oldest sessions beyond capacity.
	// Saving an existing id replaces it.
	Save(ctx context.Context, s Session) error

	// Get returns the session with id.
	// Returns ErrNotFound if the session is unknown or was evicted.
	Get(ctx context.Context, id string) (Session, error)

	// Delete removes a session. Returns ErrNotFound if it is unknown.
	Delete(ctx context.Context, id string) error

	// List returns summaries, newest first.
	List(ctx context.Context) []Summary

	// Count returns the number of sessions held.
	Count(ctx context.Context) int
}
