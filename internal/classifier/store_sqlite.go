package classifier

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cookieprobe/cookieprobe/internal/hashutil"
	"github.com/cookieprobe/cookieprobe/internal/model"
	"github.com/cookieprobe/cookieprobe/pkg/sanitizer"
	"github.com/cookieprobe/cookieprobe/pkg/snowflake"
)

// SQLiteStore implements Store over a *sql.DB opened with internal/db.Open.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already-migrated *sql.DB.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) UpsertDescriptor(ctx context.Context, d model.Descriptor) (model.Descriptor, error) {
	d.Vendor, d.Purpose, d.Notes = sanitizer.Descriptor(d.Vendor, d.Purpose, d.Notes)
	now := time.Now().UTC()

	existing, err := s.LookupByExactName(ctx, d.Name)
	if err != nil {
		return model.Descriptor{}, fmt.Errorf("store: upsert lookup: %w", err)
	}

	if existing == nil {
		d.ID = snowflake.NextID()
		d.CreatedAt = now
		d.UpdatedAt = now
		if d.Confidence == 0 {
			d.Confidence = model.DefaultConfidence
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO cookies (id, name, vendor, category, purpose, privacy, third_party,
				typical_expiration, common_domains, notes, confidence, source, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, d.ID, d.Name, d.Vendor, string(d.Category), d.Purpose, string(d.Privacy), boolToInt(d.ThirdParty),
			d.TypicalExpiration, strings.Join(d.CommonDomains, ","), d.Notes, d.Confidence, string(d.Source),
			formatTime(now), formatTime(now))
		if err != nil {
			return model.Descriptor{}, fmt.Errorf("store: insert cookie: %w", err)
		}
		return d, nil
	}

	d.ID = existing.ID
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = now
	if d.Confidence == 0 {
		d.Confidence = model.DefaultConfidence
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE cookies SET vendor = ?, category = ?, purpose = ?, privacy = ?, third_party = ?,
			typical_expiration = ?, common_domains = ?, notes = ?, confidence = ?, source = ?, updated_at = ?
		WHERE id = ?
	`, d.Vendor, string(d.Category), d.Purpose, string(d.Privacy), boolToInt(d.ThirdParty),
		d.TypicalExpiration, strings.Join(d.CommonDomains, ","), d.Notes, d.Confidence, string(d.Source),
		formatTime(now), d.ID)
	if err != nil {
		return model.Descriptor{}, fmt.Errorf("store: update cookie: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) LookupByExactName(ctx context.Context, name string) (*model.Descriptor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, vendor, category, purpose, privacy, third_party, typical_expiration,
			common_domains, notes, confidence, source, created_at, updated_at
		FROM cookies WHERE name = ?
	`, name)
	d, err := scanDescriptor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: lookup by name: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) LookupByPattern(ctx context.Context, name string) (*model.Descriptor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.glob, c.id, c.name, c.vendor, c.category, c.purpose, c.privacy, c.third_party,
			c.typical_expiration, c.common_domains, c.notes, c.confidence, c.source, c.created_at, c.updated_at
		FROM cookie_patterns p
		JOIN cookies c ON c.id = p.cookie_id
		ORDER BY p.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: lookup by pattern: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var glob string
		var d model.Descriptor
		var category, privacy, source, createdAt, updatedAt string
		var thirdParty int
		var commonDomains string
		if err := rows.Scan(&glob, &d.ID, &d.Name, &d.Vendor, &category, &d.Purpose, &privacy, &thirdParty,
			&d.TypicalExpiration, &commonDomains, &d.Notes, &d.Confidence, &source, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("store: scan pattern row: %w", err)
		}
		if !globMatch(glob, name) {
			continue
		}
		d.Category = model.Category(category)
		d.Privacy = model.PrivacyLevel(privacy)
		d.Source = model.DescriptorSource(source)
		d.ThirdParty = thirdParty != 0
		d.CommonDomains = splitCommaList(commonDomains)
		d.CreatedAt, _ = parseTime(createdAt)
		d.UpdatedAt, _ = parseTime(updatedAt)
		return &d, rows.Err()
	}
	return nil, rows.Err()
}

func (s *SQLiteStore) Resolve(ctx context.Context, name string) (*model.Descriptor, error) {
	if d, err := s.LookupByExactName(ctx, name); err != nil || d != nil {
		return d, err
	}
	return s.LookupByPattern(ctx, name)
}

func (s *SQLiteStore) AddPattern(ctx context.Context, glob, cookieName string) error {
	existing, err := s.LookupByExactName(ctx, cookieName)
	if err != nil {
		return fmt.Errorf("store: add pattern lookup: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("store: add pattern: no cookie named %q", cookieName)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cookie_patterns (id, glob, cookie_id, created_at) VALUES (?, ?, ?, ?)
	`, snowflake.NextID(), glob, existing.ID, formatTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("store: insert pattern: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]model.Descriptor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, vendor, category, purpose, privacy, third_party, typical_expiration,
			common_domains, notes, confidence, source, created_at, updated_at
		FROM cookies ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list all: %w", err)
	}
	defer rows.Close()

	var out []model.Descriptor
	for rows.Next() {
		d, err := scanDescriptorRows(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// correctableFields is the whitelist of Descriptor fields UpdateFields may
// touch; anything else is rejected so a caller can't smuggle arbitrary
// column writes through a free-form map.
var correctableFields = map[string]bool{
	"vendor": true, "category": true, "purpose": true, "privacy": true,
	"thirdParty": true, "typicalExpiration": true, "notes": true,
}

func (s *SQLiteStore) UpdateFields(ctx context.Context, name string, fields map[string]string) error {
	existing, err := s.LookupByExactName(ctx, name)
	if err != nil {
		return fmt.Errorf("store: update fields lookup: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("store: update fields: no cookie named %q", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now().UTC())
	for field, newValue := range fields {
		if !correctableFields[field] {
			return fmt.Errorf("store: update fields: unknown field %q", field)
		}
		oldValue := oldValueOf(existing, field)
		if oldValue == newValue {
			continue
		}

		column := fieldToColumn[field]
		//nolint:gosec // column comes from the fixed correctableFields whitelist, never user input
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE cookies SET %s = ?, source = 'manual', updated_at = ? WHERE id = ?`, column),
			newValue, now, existing.ID); err != nil {
			return fmt.Errorf("store: update column %s: %w", column, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_corrections (id, cookie_name, field, old_value, new_value, corrected_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, snowflake.NextID(), name, field, oldValue, newValue, now); err != nil {
			return fmt.Errorf("store: record correction: %w", err)
		}
	}

	return tx.Commit()
}

var fieldToColumn = map[string]string{
	"vendor": "vendor", "category": "category", "purpose": "purpose", "privacy": "privacy",
	"thirdParty": "third_party", "typicalExpiration": "typical_expiration", "notes": "notes",
}

func oldValueOf(d *model.Descriptor, field string) string {
	switch field {
	case "vendor":
		return d.Vendor
	case "category":
		return string(d.Category)
	case "purpose":
		return d.Purpose
	case "privacy":
		return string(d.Privacy)
	case "thirdParty":
		if d.ThirdParty {
			return "1"
		}
		return "0"
	case "typicalExpiration":
		return d.TypicalExpiration
	case "notes":
		return d.Notes
	}
	return ""
}

func (s *SQLiteStore) DeleteByName(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: delete by name: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Statistics(ctx context.Context) (StoreStats, error) {
	stats := StoreStats{ByCategory: map[model.Category]int{}, ByPrivacy: map[model.PrivacyLevel]int{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cookies`).Scan(&stats.TotalCookies); err != nil {
		return stats, fmt.Errorf("store: count cookies: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM cookies GROUP BY category`)
	if err != nil {
		return stats, fmt.Errorf("store: group by category: %w", err)
	}
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			rows.Close()
			return stats, fmt.Errorf("store: scan category group: %w", err)
		}
		stats.ByCategory[model.Category(cat)] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return stats, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT privacy, COUNT(*) FROM cookies GROUP BY privacy`)
	if err != nil {
		return stats, fmt.Errorf("store: group by privacy: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var priv string
		var n int
		if err := rows.Scan(&priv, &n); err != nil {
			return stats, fmt.Errorf("store: scan privacy group: %w", err)
		}
		stats.ByPrivacy[model.PrivacyLevel(priv)] = n
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) CacheLookup(ctx context.Context, name, domain string) (string, bool, error) {
	key := hashutil.MD5Hex(name + "|" + domain)
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT raw_response FROM ai_query_cache WHERE cache_key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: cache lookup: %w", err)
	}
	return raw, true, nil
}

func (s *SQLiteStore) CacheStore(ctx context.Context, name, domain, rawResponse string) error {
	key := hashutil.MD5Hex(name + "|" + domain)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_query_cache (cache_key, name, domain, raw_response, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET raw_response = excluded.raw_response, created_at = excluded.created_at
	`, key, name, domain, rawResponse, formatTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("store: cache store: %w", err)
	}
	return nil
}

// row is satisfied by both *sql.Row and *sql.Rows, letting scanDescriptor
// share one Scan call shape across LookupByExactName and ListAll.
type row interface {
	Scan(dest ...any) error
}

func scanDescriptor(r row) (*model.Descriptor, error) {
	return scanDescriptorRows(r)
}

func scanDescriptorRows(r row) (*model.Descriptor, error) {
	var d model.Descriptor
	var category, privacy, source, createdAt, updatedAt, commonDomains string
	var thirdParty int

	if err := r.Scan(&d.ID, &d.Name, &d.Vendor, &category, &d.Purpose, &privacy, &thirdParty,
		&d.TypicalExpiration, &commonDomains, &d.Notes, &d.Confidence, &source, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	d.Category = model.Category(category)
	d.Privacy = model.PrivacyLevel(privacy)
	d.Source = model.DescriptorSource(source)
	d.ThirdParty = thirdParty != 0
	d.CommonDomains = splitCommaList(commonDomains)
	d.CreatedAt, _ = parseTime(createdAt)
	d.UpdatedAt, _ = parseTime(updatedAt)
	return &d, nil
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// globMatch reports whether name matches glob, where '*' is the only
// wildcard (spec.md §4.3: "a name n matches P if n LIKE glob with * as the
// only wildcard").
func globMatch(glob, name string) bool {
	if !strings.Contains(glob, "*") {
		return glob == name
	}
	parts := strings.Split(glob, "*")
	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(name[pos:], part)
		if idx == -1 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		pos += idx + len(part)
	}
	if last := parts[len(parts)-1]; last != "" && !strings.HasSuffix(name, last) {
		return false
	}
	return true
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
