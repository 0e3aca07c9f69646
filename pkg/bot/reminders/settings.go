package reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/smith3v/dove-bot/pkg/config"
	"github.com/smith3v/dove-bot/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOffsetOutOfRange = fmt.Errorf("timezone offset must be between UTC%+d and UTC%+d", config.MinTimezoneOffset, config.MaxTimezoneOffset)

// Settings stores the per-user UTC offset used as the local timezone.
type Settings struct {
	db            *gorm.DB
	defaultOffset int
}

func NewSettings(gdb *gorm.DB, defaultOffset int) *Settings {
	return &Settings{db: gdb, defaultOffset: defaultOffset}
}

func (s *Settings) OffsetHours(ctx context.Context, userID int64) (int, error) {
	var settings db.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.defaultOffset, nil
	}
	if err != nil {
		return s.defaultOffset, err
	}
	return settings.TimezoneOffsetHours, nil
}

// EnsureDefaults creates the settings row with the default offset.
func (s *Settings) EnsureDefaults(ctx context.Context, userID int64) error {
	settings := db.UserSettings{UserID: userID, TimezoneOffsetHours: s.defaultOffset}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&settings).Error
}

func (s *Settings) SetOffsetHours(ctx context.Context, userID int64, offset int) error {
	if offset < config.MinTimezoneOffset || offset > config.MaxTimezoneOffset {
		return ErrOffsetOutOfRange
	}
	settings := db.UserSettings{UserID: userID, TimezoneOffsetHours: offset}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"timezone_offset_hours", "updated_at"}),
		}).
		Create(&settings).Error
}
