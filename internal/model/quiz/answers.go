package quiz

// Measurements 身高体重原始输入。
type Measurements struct {
	HeightCm float64 `json:"heightCm"`
	WeightKg float64 `json:"weightKg"`
}

// Answers is the full set of values collected by the quiz for one session.
// Empty strings and nil pointers mean "not answered yet".
type Answers struct {
	AgeRange            AgeRange            `json:"ageRange,omitempty"`
	Goals               []Goal              `json:"goals"`
	BodyType            BodyType            `json:"bodyType,omitempty"`
	DreamBody           DreamBody           `json:"dreamBody,omitempty"`
	TargetZones         []TargetZone        `json:"targetZones,omitempty"`
	ChairYogaExperience ChairYogaExperience `json:"chairYogaExperience,omitempty"`
	YogaLevel           YogaLevel           `json:"yogaLevel,omitempty"`
	ActivityLevel       ActivityLevel       `json:"activityLevel,omitempty"`
	Sensitivities       []Sensitivity       `json:"sensitivities,omitempty"`
	AvailableTime       AvailableTime       `json:"availableTime,omitempty"`
	Measurements        *Measurements       `json:"measurements,omitempty"`
	BodyMassIndex       *float64            `json:"bodyMassIndex,omitempty"`
	SelectedPlan        Plan                `json:"selectedPlan,omitempty"`
	Email               string              `json:"email,omitempty"`
}

// Clone returns a deep copy safe to hand out of a locked section.
func (a Answers) Clone() Answers {
	out := a
	out.Goals = append([]Goal(nil), a.Goals...)
	out.TargetZones = append([]TargetZone(nil), a.TargetZones...)
	out.Sensitivities = append([]Sensitivity(nil), a.Sensitivities...)
	if a.Measurements != nil {
		m := *a.Measurements
		out.Measurements = &m
	}
	if a.BodyMassIndex != nil {
		v := *a.BodyMassIndex
		out.BodyMassIndex = &v
	}
	return out
}

// SelectedGoalIDs lists the selected goals in rendering order.
func (a Answers) SelectedGoalIDs() []string {
	ids := make([]string, 0, len(a.Goals))
	for _, g := range a.Goals {
		if g.Selected {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// HasGoal reports whether the goal with id is selected.
func (a Answers) HasGoal(id string) bool {
	for _, g := range a.Goals {
		if g.ID == id {
			return g.Selected
		}
	}
	return false
}
