package models

import (
	"context"
	"strings"

	"codeberg.org/ac/base62"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Buffer for ids so generated codes are longer than 4 characters.
const idBuffer = 5000000

// GormStore persists links through gorm (mysql in production, sqlite in
// tests).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the schema and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Link{}); err != nil {
		return nil, errors.Wrap(err, "NewGormStore.AutoMigrate")
	}
	return &GormStore{db: db}, nil
}

// Create inserts the link with a provisional unique code, then rewrites the
// code from the row id so codes stay short and collision-free.
func (s *GormStore) Create(ctx context.Context, link *Link) error {
	link.Code = uuid.NewString()

	return errors.Wrap(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(link); result.Error != nil {
			return errors.Wrap(result.Error, "tx.Create")
		}

		link.Code = base62.Encode(uint32(link.ID + idBuffer))

		if result := tx.Model(link).Update("code", link.Code); result.Error != nil {
			return errors.Wrap(result.Error, "tx.Update")
		}
		return nil
	}), "s.db.Transaction")
}

func (s *GormStore) FindByCode(ctx context.Context, code string) (*Link, error) {
	link := &Link{}
	if result := s.db.WithContext(ctx).Where("code = ?", code).First(link); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "FindByCode")
	}
	return link, nil
}

func (s *GormStore) Hit(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).
		Model(&Link{}).
		Where("code = ?", code).
		UpdateColumn("hits", gorm.Expr("hits + ?", 1))
	return errors.Wrap(result.Error, "s.db.UpdateColumn")
}

func (s *GormStore) Save(ctx context.Context, link *Link) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(link).Error, "s.db.Save")
}

func (s *GormStore) List(ctx context.Context, code, term string) ([]Link, error) {
	query := s.db.WithContext(ctx).Model(&Link{})
	if len(code) != 0 {
		query.Where("code = ?", code)
	}
	if len(term) != 0 {
		query.Where("target LIKE ?", strings.Join([]string{"%", term, "%"}, ""))
	}

	var results []Link
	if err := query.Find(&results).Error; err != nil {
		return nil, errors.Wrap(err, "query.Find")
	}
	return results, nil
}
