// Package tokenstore is the client's only durable storage: one key holding
// the session token.
package tokenstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenKey is the single key the client persists.
const TokenKey = "six-cities-token"

// Entry is one row of client storage.
type Entry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:64"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string {
	return "client_storage"
}

// Store persists the token through gorm.
type Store struct {
	db *gorm.DB
}

// New migrates the storage table and returns a Store over it.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Token returns the stored token or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("storage_key = ?", TokenKey).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	e := Entry{Key: TokenKey, Value: token}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *Store) RemoveToken(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("storage_key = ?", TokenKey).Delete(&Entry{}).Error
}

// Memory keeps the token in process memory only.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) RemoveToken(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
