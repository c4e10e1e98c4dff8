package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/db"
)

// SQLite is a registry stored in a local SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite registry: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite registry: init schema: %w", err)
	}

	return &SQLite{db: conn, now: time.Now}, nil
}

func initSchema(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			filename TEXT NOT NULL,
			artist TEXT,
			duration REAL,
			description TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_songs_created_at ON songs(created_at DESC);
	`)
	return err
}

// Rows returns all songs, newest first.
func (s *SQLite) Rows(ctx context.Context) ([]catalog.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, filename, artist, duration, description, created_at
		FROM songs
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	var result []catalog.Row
	for rows.Next() {
		var (
			row         catalog.Row
			artist      sql.NullString
			description sql.NullString
			duration    sql.NullFloat64
			createdAt   int64
		)
		if err := rows.Scan(&row.ID, &row.Title, &row.Filename, &artist, &duration, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		row.Artist = db.NullStringValue(artist)
		row.Description = db.NullStringValue(description)
		row.Duration = db.NullFloat64Value(duration)
		row.CreatedAt = db.UnixTime(createdAt)
		result = append(result, row)
	}
	return result, rows.Err()
}

// Add inserts songs in a single transaction and returns their ids.
func (s *SQLite) Add(ctx context.Context, songs ...NewSong) ([]int64, error) {
	ids := make([]int64, 0, len(songs))
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO songs (title, filename, artist, duration, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, song := range songs {
			if song.Filename == "" {
				return fmt.Errorf("song %q has no filename", song.Title)
			}
			res, err := stmt.ExecContext(ctx,
				song.Title,
				song.Filename,
				db.NullString(song.Artist),
				db.NullFloat64(song.Duration),
				db.NullString(song.Description),
				s.now().Unix(),
			)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert songs: %w", err)
	}
	return ids, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
