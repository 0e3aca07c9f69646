package prefs

import (
	"context"
	"errors"

	"github.com/smith3v/dove-bot/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormStore keeps each record in the user_records table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) Read(ctx context.Context, userID int64) (Record, error) {
	var row db.UserRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, err
	}
	return decodeRecord(row.Data)
}

func (s *GormStore) Merge(ctx context.Context, userID int64, patch Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row db.UserRecord
		err := tx.Where("user_id = ?", userID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = db.UserRecord{UserID: userID}
		} else if err != nil {
			return err
		}
		merged, err := mergeBlob(row.Data, patch)
		if err != nil {
			return err
		}
		row.Data = datatypes.JSON(merged)
		return tx.Save(&row).Error
	})
}
