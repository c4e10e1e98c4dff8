// Package registry implements the structured track registry backends.
package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/catalog"
)

// Driver names accepted by Open.
const (
	DriverNone   = "none"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// NewSong describes a row to insert.
type NewSong struct {
	Title       string
	Filename    string
	Artist      string
	Duration    float64 // seconds, 0 when unknown
	Description string
}

// Store is a writable track registry.
type Store interface {
	catalog.Registry
	Add(ctx context.Context, songs ...NewSong) ([]int64, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver string
	Path   string // sqlite database file
	DSN    string // mysql data source name
}

// Open returns the backend selected by opts.Driver.
// DriverNone returns a nil Store and no error.
func Open(ctx context.Context, opts Options, log *zap.Logger) (Store, error) {
	switch opts.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMySQL:
		m, err := OpenMySQL(ctx, opts.DSN, log)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown registry driver %q", opts.Driver)
	}
}
