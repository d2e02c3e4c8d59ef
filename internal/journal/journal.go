package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS bridge_decisions (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	frame_id         TEXT NOT NULL,
	provenance_hash  TEXT NOT NULL,
	source           TEXT NOT NULL,
	genre            TEXT,
	best_preset_id   TEXT,
	best_score       REAL NOT NULL,
	action           TEXT NOT NULL,
	dispatch_ok      INTEGER NOT NULL DEFAULT 1,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bridge_decisions_hash
ON bridge_decisions(provenance_hash);
`

// #endregion schema

// #region entry
// Entry is one appended decision record: which frame was processed, which
// preset won, what the bridge decided, and whether dispatch succeeded.
type Entry struct {
	FrameID        string    `json:"frame_id"`
	ProvenanceHash string    `json:"provenance_hash"`
	Source         string    `json:"source"`
	Genre          string    `json:"genre,omitempty"`
	BestPresetID   string    `json:"best_preset_id,omitempty"`
	BestScore      float64   `json:"best_score"`
	Action         string    `json:"action"`
	DispatchOK     bool      `json:"dispatch_ok"`
	CreatedAt      time.Time `json:"created_at"`
}

// #endregion entry

// #region journal
// Journal is an append-only SQLite log of bridge decisions.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database and runs migrations.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// #endregion journal

// #region record
// Record appends one decision entry.
func (j *Journal) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	dispatched := 0
	if e.DispatchOK {
		dispatched = 1
	}
	_, err := j.db.Exec(
		`INSERT INTO bridge_decisions
		 (frame_id, provenance_hash, source, genre, best_preset_id, best_score, action, dispatch_ok, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.FrameID,
		e.ProvenanceHash,
		e.Source,
		nullIfEmpty(e.Genre),
		nullIfEmpty(e.BestPresetID),
		e.BestScore,
		e.Action,
		dispatched,
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// #endregion record

// #region recent
// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT frame_id, provenance_hash, source, genre, best_preset_id, best_score, action, dispatch_ok, created_at
		 FROM bridge_decisions ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var genre, bestID sql.NullString
		var dispatched int
		var createdStr string
		if err := rows.Scan(
			&e.FrameID, &e.ProvenanceHash, &e.Source,
			&genre, &bestID, &e.BestScore, &e.Action, &dispatched, &createdStr,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Genre = genre.String
		e.BestPresetID = bestID.String
		e.DispatchOK = dispatched != 0
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion recent

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
