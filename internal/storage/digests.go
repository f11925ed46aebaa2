// ABOUTME: CoachingDigest storage operations.
// ABOUTME: Upserts on (digest_date, digest_type); highlights stored as JSON.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
)

// UpsertDigest writes a digest, replacing any existing row for its
// (date, type) pair.
func (d *DB) UpsertDigest(g *models.CoachingDigest) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	highlights := g.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	encoded, err := json.Marshal(highlights)
	if err != nil {
		return fmt.Errorf("encode highlights: %w", err)
	}
	res, err := d.db.Exec(
		`INSERT INTO coaching_digests (digest_date, digest_type, summary, highlights, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(digest_date, digest_type) DO UPDATE SET
			summary = excluded.summary,
			highlights = excluded.highlights,
			created_at = excluded.created_at`,
		formatDate(g.DigestDate), string(g.DigestType), g.Summary, string(encoded),
		formatTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert digest: %w", err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("upsert digest: %w", err)
	}
	return nil
}

// LatestDigests returns the newest digests of each type, most recent
// digest date first, at most limit rows.
func (d *DB) LatestDigests(limit int) ([]*models.CoachingDigest, error) {
	if limit < 1 {
		limit = 1
	}
	rows, err := d.db.Query(
		`SELECT id, digest_date, digest_type, summary, highlights, created_at
		 FROM coaching_digests
		 ORDER BY digest_date DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("latest digests: %w", err)
	}
	defer rows.Close()

	var digests []*models.CoachingDigest
	for rows.Next() {
		g, err := scanDigest(rows)
		if err != nil {
			return nil, err
		}
		digests = append(digests, g)
	}
	return digests, rows.Err()
}

// LatestDigestOfType returns the newest digest of one type, or ErrNotFound.
func (d *DB) LatestDigestOfType(digestType models.DigestType) (*models.CoachingDigest, error) {
	rows, err := d.db.Query(
		`SELECT id, digest_date, digest_type, summary, highlights, created_at
		 FROM coaching_digests
		 WHERE digest_type = ?
		 ORDER BY digest_date DESC, id DESC
		 LIMIT 1`,
		string(digestType),
	)
	if err != nil {
		return nil, fmt.Errorf("latest digest: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanDigest(rows)
}

// DigestFor returns the digest stored for a date and type, or ErrNotFound.
func (d *DB) DigestFor(date time.Time, digestType models.DigestType) (*models.CoachingDigest, error) {
	rows, err := d.db.Query(
		`SELECT id, digest_date, digest_type, summary, highlights, created_at
		 FROM coaching_digests
		 WHERE digest_date = ? AND digest_type = ?`,
		formatDate(date), string(digestType),
	)
	if err != nil {
		return nil, fmt.Errorf("digest for date: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanDigest(rows)
}

func scanDigest(rows rowScanner) (*models.CoachingDigest, error) {
	var g models.CoachingDigest
	var digestDate, digestType, highlights, createdAt string

	if err := rows.Scan(&g.ID, &digestDate, &digestType, &g.Summary, &highlights, &createdAt); err != nil {
		return nil, fmt.Errorf("scan digest: %w", err)
	}
	g.DigestDate = parseDate(digestDate)
	g.DigestType = models.DigestType(digestType)
	g.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(highlights), &g.Highlights); err != nil {
		return nil, fmt.Errorf("decode highlights: %w", err)
	}
	return &g, nil
}
