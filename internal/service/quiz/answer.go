package quiz

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/chair-yoga/backend/internal/funnel"
	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
)

// Answer fields accepted by Apply.
const (
	FieldAge                 = "age"
	FieldGoal                = "goal"
	FieldBodyType            = "body-type"
	FieldDreamBody           = "dream-body"
	FieldTargetZone          = "target-zone"
	FieldChairYogaExperience = "chair-yoga-experience"
	FieldYogaLevel           = "yoga-level"
	FieldActivityLevel       = "activity-level"
	FieldSensitivity         = "sensitivity"
	FieldAvailableTime       = "available-time"
	FieldMeasurements        = "measurements"
	FieldBMI                 = "bmi"
	FieldPlan                = "plan"
	FieldEmail               = "email"
)

// Answer 单个题目的作答。Value 用于枚举类字段，身高体重与 BMI 使用数值字段。
type Answer struct {
	Field    string   `json:"field"`
	Value    string   `json:"value,omitempty"`
	HeightCm float64  `json:"heightCm,omitempty"`
	WeightKg float64  `json:"weightKg,omitempty"`
	BMI      *float64 `json:"bmi,omitempty"`
}

// applyAnswer routes the answer to the matching store setter.
func applyAnswer(store *funnel.Store, a Answer) error {
	value := strings.TrimSpace(a.Value)

	switch a.Field {
	case FieldAge:
		return store.SetAgeRange(quiz.AgeRange(value))
	case FieldGoal:
		// unknown goal ids are ignored
		store.ToggleGoal(value)
		return nil
	case FieldBodyType:
		return store.SetBodyType(quiz.BodyType(value))
	case FieldDreamBody:
		return store.SetDreamBody(quiz.DreamBody(value))
	case FieldTargetZone:
		return store.ToggleTargetZone(quiz.TargetZone(value))
	case FieldChairYogaExperience:
		return store.SetChairYogaExperience(quiz.ChairYogaExperience(value))
	case FieldYogaLevel:
		return store.SetYogaLevel(quiz.YogaLevel(value))
	case FieldActivityLevel:
		return store.SetActivityLevel(quiz.ActivityLevel(value))
	case FieldSensitivity:
		return store.ToggleSensitivity(quiz.Sensitivity(value))
	case FieldAvailableTime:
		return store.SetAvailableTime(quiz.AvailableTime(value))
	case FieldMeasurements:
		_, err := store.SetMeasurements(a.HeightCm, a.WeightKg)
		return err
	case FieldBMI:
		if a.BMI == nil || *a.BMI <= 0 {
			return fmt.Errorf("%w: bmi must be positive", funnel.ErrInvalidAnswer)
		}
		store.SetBodyMassIndex(*a.BMI)
		return nil
	case FieldPlan:
		return store.SetSelectedPlan(quiz.Plan(value))
	case FieldEmail:
		return store.SetEmail(value)
	default:
		return fmt.Errorf("%w: unknown field %q", funnel.ErrInvalidAnswer, a.Field)
	}
}
