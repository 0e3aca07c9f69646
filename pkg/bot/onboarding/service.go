// Package onboarding runs the first-run wizard: name, faith practice,
// topics, goals, reminder and the free trial screen.
package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/smith3v/dove-bot/pkg/db"
	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/ui"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StepName          = "name"
	StepFaithIntro    = "faith_intro"
	StepFaithPractice = "faith_practice"
	StepTopics        = "topics"
	StepGoals         = "goals"
	StepReminder      = "reminder"
	StepFreeTrial     = "free_trial"

	MaxTextAnswerLen = 200
)

var (
	ErrUnexpectedStep = errors.New("action does not match the onboarding step")
	ErrEmptyAnswer    = errors.New("answer is empty")
	ErrAnswerTooLong  = errors.New("answer is too long")
)

// Draft holds answers still being edited.
type Draft struct {
	Topics []string `json:"topics,omitempty"`
}

// State is a user's place in the wizard.
type State struct {
	Step  string
	Draft Draft
}

// Service persists wizard progress in onboarding_states and writes answers
// to the preference record as soon as they are given.
type Service struct {
	db    *gorm.DB
	prefs prefs.Merger
}

func NewService(gdb *gorm.DB, merger prefs.Merger) *Service {
	return &Service{db: gdb, prefs: merger}
}

// GetState returns nil when the user is not onboarding.
func (s *Service) GetState(ctx context.Context, userID int64) (*State, error) {
	row, err := s.load(ctx, userID)
	if err != nil || row == nil {
		return nil, err
	}
	return decodeState(row)
}

func (s *Service) Begin(ctx context.Context, userID int64) (*State, error) {
	state := &State{Step: StepName}
	return state, s.save(ctx, userID, state)
}

func (s *Service) SubmitName(ctx context.Context, userID int64, name string) (*State, error) {
	name, err := cleanAnswer(name)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, userID, StepName, StepFaithIntro, prefs.Patch{prefs.KeyName: name})
}

func (s *Service) ContinueIntro(ctx context.Context, userID int64) (*State, error) {
	return s.advance(ctx, userID, StepFaithIntro, StepFaithPractice, nil)
}

func (s *Service) ChooseFaithPractice(ctx context.Context, userID int64, index int) (*State, error) {
	if index < 0 || index >= len(FaithPracticeOptions) {
		return nil, ErrUnexpectedStep
	}
	return s.advance(ctx, userID, StepFaithPractice, StepTopics, prefs.Patch{prefs.KeyFaithPractice: FaithPracticeOptions[index]})
}

// ToggleTopic flips a topic in the draft selection.
func (s *Service) ToggleTopic(ctx context.Context, userID int64, index int) (*State, error) {
	if index < 0 || index >= len(TopicOptions) {
		return nil, ErrUnexpectedStep
	}
	state, err := s.expect(ctx, userID, StepTopics)
	if err != nil {
		return nil, err
	}
	topic := TopicOptions[index]
	selected := make([]string, 0, len(state.Draft.Topics)+1)
	found := false
	for _, existing := range state.Draft.Topics {
		if existing == topic {
			found = true
			continue
		}
		selected = append(selected, existing)
	}
	if !found {
		selected = append(selected, topic)
	}
	state.Draft.Topics = selected
	return state, s.save(ctx, userID, state)
}

func (s *Service) ConfirmTopics(ctx context.Context, userID int64) (*State, error) {
	state, err := s.expect(ctx, userID, StepTopics)
	if err != nil {
		return nil, err
	}
	var patch prefs.Patch
	if len(state.Draft.Topics) > 0 {
		patch = prefs.Patch{prefs.KeyTopics: state.Draft.Topics}
	}
	return s.advance(ctx, userID, StepTopics, StepGoals, patch)
}

func (s *Service) SubmitGoals(ctx context.Context, userID int64, goals string) (*State, error) {
	goals, err := cleanAnswer(goals)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, userID, StepGoals, StepReminder, prefs.Patch{prefs.KeyGoals: goals})
}

func (s *Service) SkipGoals(ctx context.Context, userID int64) (*State, error) {
	return s.advance(ctx, userID, StepGoals, StepReminder, nil)
}

// SaveReminder stores the reminder choice; scheduling is left to the caller.
func (s *Service) SaveReminder(ctx context.Context, userID int64, draft ui.ReminderDraft) (*State, error) {
	if !draft.AnyDay() {
		return nil, ErrEmptyAnswer
	}
	patch := prefs.Patch{prefs.KeyReminder: prefs.Reminder{Time: draft.Time(), Days: draft.DaySlice()}}
	return s.advance(ctx, userID, StepReminder, StepFreeTrial, patch)
}

// SkipToFreeTrial leaves the questions from any step before the trial.
func (s *Service) SkipToFreeTrial(ctx context.Context, userID int64) (*State, error) {
	state, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Step == StepFreeTrial {
		return nil, ErrUnexpectedStep
	}
	state.Step = StepFreeTrial
	return state, s.save(ctx, userID, state)
}

// Finish ends the wizard from the free trial screen.
func (s *Service) Finish(ctx context.Context, userID int64) error {
	if _, err := s.expect(ctx, userID, StepFreeTrial); err != nil {
		return err
	}
	return s.Clear(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.OnboardingState{}).Error
}

func (s *Service) advance(ctx context.Context, userID int64, from, to string, patch prefs.Patch) (*State, error) {
	state, err := s.expect(ctx, userID, from)
	if err != nil {
		return nil, err
	}
	if len(patch) > 0 {
		if err := s.prefs.Merge(ctx, userID, patch); err != nil {
			return nil, err
		}
	}
	state.Step = to
	return state, s.save(ctx, userID, state)
}

func (s *Service) expect(ctx context.Context, userID int64, step string) (*State, error) {
	state, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Step != step {
		return nil, ErrUnexpectedStep
	}
	return state, nil
}

func (s *Service) current(ctx context.Context, userID int64) (*State, error) {
	state, err := s.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrUnexpectedStep
	}
	return state, nil
}

func (s *Service) load(ctx context.Context, userID int64) (*db.OnboardingState, error) {
	var row db.OnboardingState
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) save(ctx context.Context, userID int64, state *State) error {
	draft, err := json.Marshal(state.Draft)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row db.OnboardingState
		err := tx.Where("user_id = ?", userID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = db.OnboardingState{UserID: userID}
		} else if err != nil {
			return err
		}
		row.Step = state.Step
		row.Draft = datatypes.JSON(draft)
		return tx.Save(&row).Error
	})
}

func decodeState(row *db.OnboardingState) (*State, error) {
	state := &State{Step: row.Step}
	if len(row.Draft) > 0 {
		if err := json.Unmarshal(row.Draft, &state.Draft); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func cleanAnswer(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyAnswer
	}
	if utf8.RuneCountInString(value) > MaxTextAnswerLen {
		return "", ErrAnswerTooLong
	}
	return value, nil
}
