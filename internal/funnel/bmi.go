package funnel

import (
	"errors"
	"fmt"
	"math"

	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
)

// Slider bounds of the measurements screen.
const (
	MinHeightCm = 140
	MaxHeightCm = 220
	MinWeightKg = 40
	MaxWeightKg = 150
)

var (
	ErrHeightOutOfRange = errors.New("height out of range")
	ErrWeightOutOfRange = errors.New("weight out of range")
)

// BMICategory 体重指数分类。
type BMICategory string

const (
	CategoryUnderweight BMICategory = "Abaixo do peso"
	CategoryNormal      BMICategory = "Peso ideal"
	CategoryOverweight  BMICategory = "Sobrepeso"
	CategoryObesityI    BMICategory = "Obesidade I"
	CategoryObesityII   BMICategory = "Obesidade II+"
)

// BMI is the computed index with its classification.
type BMI struct {
	Value    float64     `json:"value"`
	Category BMICategory `json:"category"`
	Risk     string      `json:"risk"`
	Elevated bool        `json:"elevated"`
}

// ComputeBMI derives the body-mass index from height in centimetres and
// weight in kilograms. Value is rounded to one decimal; the category uses the
// unrounded index.
func ComputeBMI(heightCm, weightKg float64) (BMI, error) {
	if err := ValidateMeasurements(heightCm, weightKg); err != nil {
		return BMI{}, err
	}

	h := heightCm / 100
	raw := weightKg / (h * h)

	category, risk := Classify(raw)
	return BMI{
		Value:    math.Round(raw*10) / 10,
		Category: category,
		Risk:     risk,
		Elevated: raw >= 25,
	}, nil
}

// ValidateMeasurements checks the inputs against the slider bounds.
func ValidateMeasurements(heightCm, weightKg float64) error {
	if math.IsNaN(heightCm) || heightCm < MinHeightCm || heightCm > MaxHeightCm {
		return fmt.Errorf("%w: %.0f cm (want %d-%d)", ErrHeightOutOfRange, heightCm, MinHeightCm, MaxHeightCm)
	}
	if math.IsNaN(weightKg) || weightKg < MinWeightKg || weightKg > MaxWeightKg {
		return fmt.Errorf("%w: %.0f kg (want %d-%d)", ErrWeightOutOfRange, weightKg, MinWeightKg, MaxWeightKg)
	}
	return nil
}

// Classify buckets a BMI value into its category and health-risk label.
func Classify(bmi float64) (BMICategory, string) {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight, "Moderado"
	case bmi < 25:
		return CategoryNormal, "Baixo"
	case bmi < 30:
		return CategoryOverweight, "Elevado"
	case bmi < 35:
		return CategoryObesityI, "Alto"
	default:
		return CategoryObesityII, "Muito Alto"
	}
}

// IdealWeight returns the target weight shown next to the BMI result.
func IdealWeight(heightCm float64, dream quiz.DreamBody, body quiz.BodyType) float64 {
	idealBMI := 22.0
	if dream == quiz.DreamAthletic {
		idealBMI = 23
	}
	// body type wins over dream body when both apply
	if body == quiz.BodyPlus {
		idealBMI = 24
	}
	h := heightCm / 100
	return math.Round(idealBMI * h * h)
}
