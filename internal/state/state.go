// Package state remembers the volume and the last played track between
// runs in a small SQLite database.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/soundfolio/player/internal/db"
)

const saveDebounce = 500 * time.Millisecond

// State is what survives a restart.
type State struct {
	Volume   float64
	TrackID  int64  // 0 when nothing was played
	TrackURL string // disambiguates storage-derived ids, which are positional
}

// Manager reads and writes the saved state. Saves are debounced.
type Manager struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *State
}

// Open opens (creating if needed) the state database at path.
func Open(ctx context.Context, path string, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
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
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return &Manager{db: conn, log: log, now: time.Now}, nil
}

// Load returns the saved state. found is false when nothing was saved yet.
func (m *Manager) Load(ctx context.Context) (s State, found bool, err error) {
	var (
		id  sql.NullInt64
		url sql.NullString
	)
	err = m.db.QueryRowContext(ctx,
		`SELECT volume, track_id, track_url FROM player_state WHERE id = 1`,
	).Scan(&s.Volume, &id, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}
	s.TrackID = id.Int64
	s.TrackURL = url.String
	return s, true, nil
}

// Save schedules s to be written. Only the latest state within the
// debounce window is written.
func (m *Manager) Save(s State) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &s
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		if err := m.flush(); err != nil {
			m.log.Warn("save state", zap.Error(err))
		}
	})
}

func (m *Manager) flush() error {
	m.saveMu.Lock()
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending == nil {
		return nil
	}
	return m.write(*pending)
}

func (m *Manager) write(s State) error {
	return db.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO player_state (id, volume, track_id, track_url, updated_at)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				volume = excluded.volume,
				track_id = excluded.track_id,
				track_url = excluded.track_url,
				updated_at = excluded.updated_at
		`, s.Volume, db.NullInt64(s.TrackID), db.NullString(s.TrackURL), m.now().Unix())
		return err
	})
}

// Close flushes a pending save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()

	err := m.flush()
	if cerr := m.db.Close(); err == nil {
		err = cerr
	}
	return err
}
