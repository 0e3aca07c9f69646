// Package prefs stores the per-user preference record: one JSON document
// per user, read whole and written by shallow key merge.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Record keys as they appear in the stored document.
const (
	KeyName                 = "name"
	KeyFaithPractice        = "faithPractice"
	KeyTopics               = "topics"
	KeyGoals                = "goals"
	KeyReminder             = "reminder"
	KeyLikedQuotes          = "likedQuotes"
	KeyTodayLikes           = "todayLikes"
	KeyTodayLikesDate       = "todayLikesDate"
	KeyCelebrationShownDate = "celebrationShownDate"
	KeyShowOnlyLiked        = "showOnlyLiked"
)

var knownKeys = map[string]struct{}{
	KeyName:                 {},
	KeyFaithPractice:        {},
	KeyTopics:               {},
	KeyGoals:                {},
	KeyReminder:             {},
	KeyLikedQuotes:          {},
	KeyTodayLikes:           {},
	KeyTodayLikesDate:       {},
	KeyCelebrationShownDate: {},
	KeyShowOnlyLiked:        {},
}

var ErrUnknownKey = errors.New("unknown record key")

// Reminder is the weekly reminder choice. Days is indexed Sunday=0..Saturday=6.
type Reminder struct {
	Time string `json:"time"`
	Days []bool `json:"days"`
}

type Record struct {
	Name                 string    `json:"name,omitempty"`
	FaithPractice        string    `json:"faithPractice,omitempty"`
	Topics               []string  `json:"topics,omitempty"`
	Goals                string    `json:"goals,omitempty"`
	Reminder             *Reminder `json:"reminder,omitempty"`
	LikedQuotes          []int     `json:"likedQuotes,omitempty"`
	TodayLikes           []int     `json:"todayLikes,omitempty"`
	TodayLikesDate       string    `json:"todayLikesDate,omitempty"`
	CelebrationShownDate string    `json:"celebrationShownDate,omitempty"`
	ShowOnlyLiked        bool      `json:"showOnlyLiked,omitempty"`
}

// HasProfile reports whether any onboarding answer was stored.
func (r Record) HasProfile() bool {
	return r.Name != "" || r.FaithPractice != "" || len(r.Topics) > 0 || r.Goals != "" || r.Reminder != nil
}

// Patch is a shallow overwrite: every key replaces the stored value, a nil
// value removes the key.
type Patch map[string]any

func (p Patch) Validate() error {
	for key := range p {
		if _, ok := knownKeys[key]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
	}
	return nil
}

// Keys returns the patch keys in sorted order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type Reader interface {
	Read(ctx context.Context, userID int64) (Record, error)
}

type Merger interface {
	Merge(ctx context.Context, userID int64, patch Patch) error
}

// Store is the whole-record read, partial-merge write contract.
type Store interface {
	Reader
	Merger
}

// WriteError reports a failed merge.
type WriteError struct {
	UserID int64
	Keys   []string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("persist record for user %d (keys %s): %v", e.UserID, strings.Join(e.Keys, ","), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func decodeRecord(blob []byte) (Record, error) {
	var record Record
	if len(blob) == 0 {
		return record, nil
	}
	if err := json.Unmarshal(blob, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

func mergeBlob(existing []byte, patch Patch) ([]byte, error) {
	doc := make(map[string]json.RawMessage)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, err
		}
	}
	for key, value := range patch {
		if value == nil {
			delete(doc, key)
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		doc[key] = raw
	}
	return json.Marshal(doc)
}
