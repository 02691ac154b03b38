package funnel

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
)

var (
	ErrInvalidEmail  = errors.New("invalid email")
	ErrInvalidAnswer = errors.New("invalid answer")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s is email-shaped.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Store holds the answers of a single session. It is not safe for concurrent
// use; the owner serialises access.
type Store struct {
	answers quiz.Answers
}

// NewStore returns a store with the fixed goal list and the default plan.
func NewStore() *Store {
	return &Store{
		answers: quiz.Answers{
			Goals:        quiz.SeedGoals(),
			SelectedPlan: quiz.DefaultPlan,
		},
	}
}

// Snapshot returns a copy of the current answers.
func (s *Store) Snapshot() quiz.Answers {
	return s.answers.Clone()
}

func (s *Store) SetAgeRange(v quiz.AgeRange) error {
	if !v.Valid() {
		return invalid("age range", string(v))
	}
	s.answers.AgeRange = v
	return nil
}

func (s *Store) SetBodyType(v quiz.BodyType) error {
	if !v.Valid() {
		return invalid("body type", string(v))
	}
	s.answers.BodyType = v
	return nil
}

func (s *Store) SetDreamBody(v quiz.DreamBody) error {
	if !v.Valid() {
		return invalid("dream body", string(v))
	}
	s.answers.DreamBody = v
	return nil
}

// SetChairYogaExperience also records the yoga level the experience maps to.
func (s *Store) SetChairYogaExperience(v quiz.ChairYogaExperience) error {
	if !v.Valid() {
		return invalid("chair yoga experience", string(v))
	}
	s.answers.ChairYogaExperience = v
	s.answers.YogaLevel = v.LevelFor()
	return nil
}

func (s *Store) SetYogaLevel(v quiz.YogaLevel) error {
	if !v.Valid() {
		return invalid("yoga level", string(v))
	}
	s.answers.YogaLevel = v
	return nil
}

func (s *Store) SetAvailableTime(v quiz.AvailableTime) error {
	if !v.Valid() {
		return invalid("available time", string(v))
	}
	s.answers.AvailableTime = v
	return nil
}

func (s *Store) SetActivityLevel(v quiz.ActivityLevel) error {
	if !v.Valid() {
		return invalid("activity level", string(v))
	}
	s.answers.ActivityLevel = v
	return nil
}

func (s *Store) SetSelectedPlan(v quiz.Plan) error {
	if !v.Valid() {
		return invalid("plan", string(v))
	}
	s.answers.SelectedPlan = v
	return nil
}

// SetEmail stores the address only when it is email-shaped.
func (s *Store) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	s.answers.Email = email
	return nil
}

// SetBodyMassIndex records an index computed elsewhere. Stored measurements
// no longer describe it and are dropped.
func (s *Store) SetBodyMassIndex(v float64) {
	s.answers.BodyMassIndex = &v
	s.answers.Measurements = nil
}

// SetMeasurements records height and weight and recomputes the index.
func (s *Store) SetMeasurements(heightCm, weightKg float64) (BMI, error) {
	bmi, err := ComputeBMI(heightCm, weightKg)
	if err != nil {
		return BMI{}, err
	}
	value := bmi.Value
	s.answers.Measurements = &quiz.Measurements{HeightCm: heightCm, WeightKg: weightKg}
	s.answers.BodyMassIndex = &value
	return bmi, nil
}

// ToggleGoal flips the selected flag of the goal with id. Unknown ids are
// ignored; the return value tells whether a goal matched.
func (s *Store) ToggleGoal(id string) bool {
	for i := range s.answers.Goals {
		if s.answers.Goals[i].ID == id {
			s.answers.Goals[i].Selected = !s.answers.Goals[i].Selected
			return true
		}
	}
	return false
}

// SelectedGoals returns the selected goals in list order.
func (s *Store) SelectedGoals() []quiz.Goal {
	out := make([]quiz.Goal, 0, len(s.answers.Goals))
	for _, g := range s.answers.Goals {
		if g.Selected {
			out = append(out, g)
		}
	}
	return out
}

func (s *Store) SelectedGoalsCount() int {
	n := 0
	for _, g := range s.answers.Goals {
		if g.Selected {
			n++
		}
	}
	return n
}

// ToggleTargetZone adds or removes a zone.
func (s *Store) ToggleTargetZone(z quiz.TargetZone) error {
	if !z.Valid() {
		return invalid("target zone", string(z))
	}
	s.answers.TargetZones = toggle(s.answers.TargetZones, z)
	return nil
}

// ToggleSensitivity adds or removes a sensitive area. "none" clears every
// other selection and is itself cleared by picking an area.
func (s *Store) ToggleSensitivity(v quiz.Sensitivity) error {
	if !v.Valid() {
		return invalid("sensitivity", string(v))
	}

	current := s.answers.Sensitivities
	if v == quiz.SensitivityNone {
		if contains(current, quiz.SensitivityNone) {
			s.answers.Sensitivities = nil
		} else {
			s.answers.Sensitivities = []quiz.Sensitivity{quiz.SensitivityNone}
		}
		return nil
	}

	if contains(current, v) {
		s.answers.Sensitivities = remove(current, v)
		return nil
	}
	s.answers.Sensitivities = append(remove(current, quiz.SensitivityNone), v)
	return nil
}

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidAnswer, field, value)
}

func contains[T comparable](items []T, v T) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

func remove[T comparable](items []T, v T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

func toggle[T comparable](items []T, v T) []T {
	if contains(items, v) {
		return remove(items, v)
	}
	return append(items, v)
}
