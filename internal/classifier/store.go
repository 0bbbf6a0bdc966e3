package classifier

import (
	"context"

	"github.com/cookieprobe/cookieprobe/internal/model"
)

// Store is the classifier's embedded relational data store, spec.md §4.3:
// five logical tables behind a small operation set. A single connection is
// shared by every worker; the sqlite implementation relies on SQLite's own
// locking plus WAL mode to keep concurrent readers and serialized writers
// consistent (see internal/db.BuildDSN).
type Store interface {
	// UpsertDescriptor inserts or updates a cookie's Descriptor by name,
	// last-write-wins at field granularity, and returns the stored row
	// (with ID and timestamps populated).
	UpsertDescriptor(ctx context.Context, d model.Descriptor) (model.Descriptor, error)

	// LookupByExactName returns the Descriptor for an exact name match, or
	// nil if none exists.
	LookupByExactName(ctx context.Context, name string) (*model.Descriptor, error)

	// LookupByPattern resolves name against every registered Pattern,
	// first glob match wins, ties broken by primary-key (insertion) order.
	LookupByPattern(ctx context.Context, name string) (*model.Descriptor, error)

	// Resolve implements the spec's lookup order: exact name, then
	// pattern.
	Resolve(ctx context.Context, name string) (*model.Descriptor, error)

	// AddPattern registers a glob -> cookie-name mapping; cookieName must
	// already have a Descriptor row.
	AddPattern(ctx context.Context, glob, cookieName string) error

	// ListAll returns every stored Descriptor, ordered by name.
	ListAll(ctx context.Context) ([]model.Descriptor, error)

	// UpdateFields applies a field-name -> new-value map to the named
	// cookie's Descriptor, recording one user_corrections row per changed
	// field, and marking the resulting Descriptor's Source as manual.
	UpdateFields(ctx context.Context, name string, fields map[string]string) error

	// DeleteByName removes a cookie's Descriptor (and, via cascade, its
	// patterns).
	DeleteByName(ctx context.Context, name string) error

	// Statistics returns count-and-group aggregates: total cookies, and a
	// per-category count, for the UI's editor surface.
	Statistics(ctx context.Context) (StoreStats, error)

	// CacheLookup returns the raw LM response text previously cached for
	// name|domain, keyed by its MD5 per spec.md §4.3.
	CacheLookup(ctx context.Context, name, domain string) (string, bool, error)

	// CacheStore persists the raw LM response text for name|domain, for
	// audit purposes; it does not itself decide cache-hit vs cache-miss
	// (that decision belongs to the cookies table lookup).
	CacheStore(ctx context.Context, name, domain, rawResponse string) error

	Close() error
}

// StoreStats is the Store's count-and-group aggregate result.
type StoreStats struct {
	TotalCookies int
	ByCategory   map[model.Category]int
	ByPrivacy    map[model.PrivacyLevel]int
}
