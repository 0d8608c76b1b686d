package dictionary

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"jplemma/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLite is a Dictionary backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) a dictionary database with WAL
// mode enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceMissing, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s", ErrResourceMissing, err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS words (
	word_id INTEGER PRIMARY KEY,
	origin INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS readings (
	word_id INTEGER NOT NULL,
	reading_order INTEGER NOT NULL,
	reading_text TEXT NOT NULL,
	reading_type INTEGER NOT NULL,
	furigana TEXT,
	PRIMARY KEY(word_id, reading_order)
);

CREATE TABLE IF NOT EXISTS parts_of_speech (
	word_id INTEGER NOT NULL,
	pos_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS definitions (
	word_id INTEGER NOT NULL,
	definition_order INTEGER NOT NULL,
	pos_json TEXT,
	meanings_json TEXT,
	PRIMARY KEY(word_id, definition_order)
);

CREATE TABLE IF NOT EXISTS priorities (
	word_id INTEGER NOT NULL,
	priority_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pitch_accents (
	word_id INTEGER NOT NULL,
	pitch_order INTEGER NOT NULL,
	pitch_value INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lookups (
	lookup_key TEXT NOT NULL,
	word_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lookup_key ON lookups(lookup_key);
CREATE INDEX IF NOT EXISTS idx_pos_word_id ON parts_of_speech(word_id);
CREATE INDEX IF NOT EXISTS idx_priority_word_id ON priorities(word_id);
CREATE INDEX IF NOT EXISTS idx_pitch_word_id ON pitch_accents(word_id);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init dictionary schema: %w", err)
	}
	return nil
}

var childTables = []string{"readings", "parts_of_speech", "definitions", "priorities", "pitch_accents", "lookups"}

// Import writes entries in one transaction. Entries already stored under
// the same ID are replaced.
func (s *SQLite) Import(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := importEntry(ctx, tx, e); err != nil {
			return fmt.Errorf("import entry %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info().Int("entries", len(entries)).Msg("[dictionary.SQLite] import done")
	return nil
}

func importEntry(ctx context.Context, tx *sql.Tx, e Entry) error {
	for _, table := range childTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE word_id = ?", e.ID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO words (word_id, origin) VALUES (?, ?)", e.ID, int(e.Origin)); err != nil {
		return err
	}
	for i, r := range e.Readings {
		var furigana sql.NullString
		if i < len(e.ReadingsFurigana) {
			furigana = sql.NullString{String: e.ReadingsFurigana[i], Valid: true}
		}
		rt := Phonetic
		if i < len(e.ReadingTypes) {
			rt = e.ReadingTypes[i]
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO readings (word_id, reading_order, reading_text, reading_type, furigana) VALUES (?, ?, ?, ?, ?)",
			e.ID, i, r, int(rt), furigana); err != nil {
			return err
		}
	}
	// obsolete readings follow the indexed ones so reading indices stay put
	for i, r := range e.ObsoleteReadings {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO readings (word_id, reading_order, reading_text, reading_type) VALUES (?, ?, ?, ?)",
			e.ID, len(e.Readings)+i, r, int(Obsolete)); err != nil {
			return err
		}
	}
	for _, p := range e.PartsOfSpeech {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO parts_of_speech (word_id, pos_text) VALUES (?, ?)", e.ID, p); err != nil {
			return err
		}
	}
	for i, d := range e.Definitions {
		posJSON, err := json.Marshal(d.PartsOfSpeech)
		if err != nil {
			return err
		}
		meaningsJSON, err := json.Marshal(d.Meanings)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO definitions (word_id, definition_order, pos_json, meanings_json) VALUES (?, ?, ?, ?)",
			e.ID, i, string(posJSON), string(meaningsJSON)); err != nil {
			return err
		}
	}
	for _, p := range e.Priorities {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO priorities (word_id, priority_text) VALUES (?, ?)", e.ID, p); err != nil {
			return err
		}
	}
	for i, p := range e.PitchAccents {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO pitch_accents (word_id, pitch_order, pitch_value) VALUES (?, ?, ?)", e.ID, i, p); err != nil {
			return err
		}
	}
	for _, k := range EntryKeys(e) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lookups (lookup_key, word_id) VALUES (?, ?)", k, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// LookupByKey returns the distinct entries indexed under key in import
// order.
func (s *SQLite) LookupByKey(ctx context.Context, key string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT word_id FROM lookups WHERE lookup_key = ? GROUP BY word_id ORDER BY MIN(rowid)", key)
	if err != nil {
		return nil, err
	}
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []Entry
	for _, id := range ids {
		e, ok, err := s.LookupByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *SQLite) LookupByID(ctx context.Context, id int) (Entry, bool, error) {
	var origin int
	err := s.db.QueryRowContext(ctx, "SELECT origin FROM words WHERE word_id = ?", id).Scan(&origin)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	e := Entry{ID: id, Origin: model.Origin(origin)}

	if err := s.loadReadings(ctx, &e); err != nil {
		return Entry{}, false, err
	}
	if e.PartsOfSpeech, err = s.loadStrings(ctx,
		"SELECT pos_text FROM parts_of_speech WHERE word_id = ? ORDER BY rowid", id); err != nil {
		return Entry{}, false, err
	}
	if e.Priorities, err = s.loadStrings(ctx,
		"SELECT priority_text FROM priorities WHERE word_id = ? ORDER BY rowid", id); err != nil {
		return Entry{}, false, err
	}
	if err := s.loadDefinitions(ctx, &e); err != nil {
		return Entry{}, false, err
	}
	if err := s.loadPitchAccents(ctx, &e); err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *SQLite) loadReadings(ctx context.Context, e *Entry) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT reading_text, reading_type, furigana FROM readings WHERE word_id = ? ORDER BY reading_order", e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			text     string
			rt       int
			furigana sql.NullString
		)
		if err := rows.Scan(&text, &rt, &furigana); err != nil {
			return err
		}
		if ReadingType(rt) == Obsolete {
			e.ObsoleteReadings = append(e.ObsoleteReadings, text)
			continue
		}
		e.Readings = append(e.Readings, text)
		e.ReadingTypes = append(e.ReadingTypes, ReadingType(rt))
		if furigana.Valid {
			e.ReadingsFurigana = append(e.ReadingsFurigana, furigana.String)
		}
	}
	return rows.Err()
}

func (s *SQLite) loadStrings(ctx context.Context, query string, id int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLite) loadDefinitions(ctx context.Context, e *Entry) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT pos_json, meanings_json FROM definitions WHERE word_id = ? ORDER BY definition_order", e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var posJSON, meaningsJSON sql.NullString
		if err := rows.Scan(&posJSON, &meaningsJSON); err != nil {
			return err
		}
		var d Definition
		if posJSON.Valid {
			if err := json.Unmarshal([]byte(posJSON.String), &d.PartsOfSpeech); err != nil {
				return fmt.Errorf("definition of %d: %w", e.ID, err)
			}
		}
		if meaningsJSON.Valid {
			if err := json.Unmarshal([]byte(meaningsJSON.String), &d.Meanings); err != nil {
				return fmt.Errorf("definition of %d: %w", e.ID, err)
			}
		}
		if len(d.PartsOfSpeech) == 0 {
			d.PartsOfSpeech = nil
		}
		e.Definitions = append(e.Definitions, d)
	}
	return rows.Err()
}

func (s *SQLite) loadPitchAccents(ctx context.Context, e *Entry) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT pitch_value FROM pitch_accents WHERE word_id = ? ORDER BY pitch_order", e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return err
		}
		e.PitchAccents = append(e.PitchAccents, v)
	}
	return rows.Err()
}

// Count returns the number of stored entries.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM words").Scan(&n)
	return n, err
}
