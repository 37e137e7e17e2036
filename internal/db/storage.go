package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	ilog "indexbot/internal/logger"
	m "indexbot/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const mysqlPrefix = "mysql://"

type Storage struct {
	db *gorm.DB
	lg zerolog.Logger
}

// NewStorage opens the history database. A dsn starting with mysql:// is
// handed to the MySQL driver without the prefix; anything else is a SQLite
// file path or ":memory:".
func NewStorage(dsn string, opts ...gorm.Option) (*Storage, error) {

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, mysqlPrefix) {
		dialector = mysql.Open(strings.TrimPrefix(dsn, mysqlPrefix))
	} else {
		dialector = sqlite.Open(dsn)
	}

	// Use a compatible writer for GORM's logger
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	opts = append([]gorm.Option{&gorm.Config{Logger: gormLogger}}, opts...)
	db, err := gorm.Open(dialector, opts...)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(dsn, mysqlPrefix) {
		// sqlite allows one writer; ":memory:" is also per-connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	stg := &Storage{
		db: db,
		lg: ilog.New("Storage"),
	}
	if err := stg.initTables(); err != nil {
		return nil, err
	}
	return stg, nil
}

func (s Storage) initTables() error {

	if err := s.db.AutoMigrate(&m.ResolvedToken{}, &m.TickHist{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveResolvedToken inserts or replaces the token row for t.Name.
func (s Storage) SaveResolvedToken(t *m.ResolvedToken) error {

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"exchange", "token", "trading_symbol", "resolved_at"}),
	}).Create(t)
	if result.Error != nil {
		return result.Error
	}

	s.lg.Info().Msgf("Saved resolved token %s for %s", t.Token, t.Name)
	return nil
}

func (s Storage) RetrieveResolvedToken(name string) (*m.ResolvedToken, error) {

	var t m.ResolvedToken

	result := s.db.Where("name = ?", name).First(&t) // memo. First는 대상이 없을 때 ErrRecordNotFound 반환
	if result.Error != nil {
		return nil, result.Error
	}

	s.lg.Debug().Msgf("Retrieved resolved token for %s", name)
	return &t, nil
}

func (s Storage) SaveTick(source string, prices map[string]any, sent bool) error {

	result := s.db.Create(&m.TickHist{
		Source: source,
		Prices: prices,
		Sent:   sent,
	})
	if result.Error != nil {
		return result.Error
	}

	s.lg.Debug().Msgf("Saved tick from %s with %d prices", source, len(prices))
	return nil
}

func (s Storage) RetrieveLatestTick() (*m.TickHist, error) {

	var hist m.TickHist

	result := s.db.Last(&hist)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &hist, nil
}
