package registry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soundfolio/player/internal/catalog"
)

// Song is the gorm model of the songs table.
type Song struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:255;not null;default:''"`
	Filename    string    `gorm:"size:512;not null"`
	Artist      *string   `gorm:"size:255"`
	Duration    *float64  `gorm:"type:double"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index:idx_songs_created_at,sort:desc"`
}

// TableName pins the table name shared with the SQLite backend.
func (Song) TableName() string { return "songs" }

// MySQL is a registry stored in a MySQL database through gorm.
type MySQL struct {
	db *gorm.DB
}

// OpenMySQL connects to dsn and migrates the songs table.
func OpenMySQL(ctx context.Context, dsn string, log *zap.Logger) (*MySQL, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dsn == "" {
		return nil, fmt.Errorf("mysql registry: empty dsn")
	}

	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("mysql registry: connect: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql registry: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := gdb.WithContext(ctx).AutoMigrate(&Song{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("mysql registry: migrate: %w", err)
	}

	log.Info("mysql registry connected")
	return &MySQL{db: gdb}, nil
}

// Rows returns all songs, newest first.
func (m *MySQL) Rows(ctx context.Context) ([]catalog.Row, error) {
	var songs []Song
	err := m.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}

	rows := make([]catalog.Row, len(songs))
	for i, s := range songs {
		rows[i] = catalog.Row{
			ID:          s.ID,
			Title:       s.Title,
			Filename:    s.Filename,
			Artist:      deref(s.Artist),
			Duration:    deref(s.Duration),
			Description: deref(s.Description),
			CreatedAt:   s.CreatedAt,
		}
	}
	return rows, nil
}

// Add inserts songs in a single transaction and returns their ids.
func (m *MySQL) Add(ctx context.Context, songs ...NewSong) ([]int64, error) {
	if len(songs) == 0 {
		return nil, nil
	}
	models := make([]Song, len(songs))
	for i, s := range songs {
		if s.Filename == "" {
			return nil, fmt.Errorf("song %q has no filename", s.Title)
		}
		models[i] = Song{
			Title:       s.Title,
			Filename:    s.Filename,
			Artist:      ptrIf(s.Artist, s.Artist != ""),
			Duration:    ptrIf(s.Duration, s.Duration > 0),
			Description: ptrIf(s.Description, s.Description != ""),
		}
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("insert songs: %w", err)
	}

	ids := make([]int64, len(models))
	for i, s := range models {
		ids[i] = s.ID
	}
	return ids, nil
}

// Close closes the underlying connection pool.
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ptrIf[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}
