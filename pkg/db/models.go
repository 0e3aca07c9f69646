// pkg/db/models.go
package db

import (
	"time"

	"gorm.io/datatypes"
)

// UserRecord holds the opaque preference blob for one user.
type UserRecord struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    int64          `gorm:"uniqueIndex"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserSettings struct {
	ID                  uint  `gorm:"primaryKey"`
	UserID              int64 `gorm:"uniqueIndex"`
	TimezoneOffsetHours int   `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type OnboardingState struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    int64          `gorm:"uniqueIndex"`
	Step      string         `gorm:"not null;default:''"`
	Draft     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReminderTrigger is one weekly reminder: Weekday uses Sunday=0.
type ReminderTrigger struct {
	ID         uint  `gorm:"primaryKey"`
	UserID     int64 `gorm:"index:idx_trigger_user_day"`
	Weekday    int   `gorm:"not null;index:idx_trigger_user_day"`
	Hour       int   `gorm:"not null"`
	Minute     int   `gorm:"not null"`
	LastSentAt *time.Time
	CreatedAt  time.Time
}

// Models lists every table the bot migrates.
func Models() []any {
	return []any{&UserRecord{}, &UserSettings{}, &OnboardingState{}, &ReminderTrigger{}}
}
