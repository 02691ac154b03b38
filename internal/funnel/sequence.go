// Package funnel holds the quiz flow core: the fixed step sequence, the
// per-session answer store, BMI math and tracking-parameter propagation.
package funnel

import "math"

// Step 是漏斗中的一个页面，用路径标识。
type Step string

const (
	StepAge                 Step = "/"
	StepGoals               Step = "/goals"
	StepBodyType            Step = "/body-type"
	StepDreamBody           Step = "/dream-body"
	StepTargetZones         Step = "/target-zones"
	StepChairYogaExperience Step = "/chair-yoga-experience"
	StepActivityLevel       Step = "/activity-level"
	StepSensitivityCheck    Step = "/sensitivity-check"
	StepAvailableTime       Step = "/available-time"
	StepBMICalculator       Step = "/bmi-calculator"
	StepProfileSummary      Step = "/profile-summary"
	StepSales               Step = "/sales"
	StepCheckout            Step = "/checkout"
	StepSuccess             Step = "/success"

	// Routable screens outside the linear sequence.
	StepResults       Step = "/results"
	StepSupport       Step = "/support-step"
	StepExerciseStyle Step = "/exercise-style"
)

// sequence must stay in sync with the browser router.
var sequence = [...]Step{
	StepAge,
	StepGoals,
	StepBodyType,
	StepDreamBody,
	StepTargetZones,
	StepChairYogaExperience,
	StepActivityLevel,
	StepSensitivityCheck,
	StepAvailableTime,
	StepBMICalculator,
	StepProfileSummary,
	StepSales,
	StepCheckout,
	StepSuccess,
}

// offSequence steps can be visited directly but Next never leads to them.
var offSequence = [...]Step{StepResults, StepSupport, StepExerciseStyle}

// selectionSteps drive the progress bar; the bar is hidden elsewhere.
var selectionSteps = [...]Step{
	StepAge,
	StepGoals,
	StepBodyType,
	StepDreamBody,
	StepTargetZones,
	StepChairYogaExperience,
	StepActivityLevel,
	StepSensitivityCheck,
	StepSupport,
	StepExerciseStyle,
	StepAvailableTime,
	StepBMICalculator,
}

// Steps returns a copy of the ordered sequence.
func Steps() []Step {
	out := make([]Step, len(sequence))
	copy(out, sequence[:])
	return out
}

// SelectionSteps returns the steps that show a progress bar.
func SelectionSteps() []Step {
	return append([]Step(nil), selectionSteps[:]...)
}

// First 返回序列的第一步。
func First() Step { return sequence[0] }

// Last 返回序列的最后一步。
func Last() Step { return sequence[len(sequence)-1] }

// IndexOf locates step in the sequence.
func IndexOf(step Step) (int, bool) {
	for i, s := range sequence {
		if s == step {
			return i, true
		}
	}
	return -1, false
}

// Known reports whether step is part of the sequence.
func Known(step Step) bool {
	_, ok := IndexOf(step)
	return ok
}

// Routable reports whether step has a screen: the sequence plus the
// off-sequence routes.
func Routable(step Step) bool {
	if Known(step) {
		return true
	}
	for _, s := range offSequence {
		if s == step {
			return true
		}
	}
	return false
}

// Next returns the step after current. Unknown and terminal steps restart the
// funnel at the first step.
func Next(current Step) Step {
	idx, ok := IndexOf(current)
	if !ok || idx == len(sequence)-1 {
		return First()
	}
	return sequence[idx+1]
}

// IsSelectionStep reports whether step is one of the question screens.
func IsSelectionStep(step Step) bool {
	for _, s := range selectionSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Progress returns the progress-bar percentage for step, 0 when the bar is hidden.
func Progress(step Step) int {
	for i, s := range selectionSteps {
		if s != step {
			continue
		}
		pct := int(math.Round(float64(i+1) * 100 / float64(len(selectionSteps))))
		if pct < 5 {
			pct = 5
		}
		if pct > 100 {
			pct = 100
		}
		return pct
	}
	return 0
}
