package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
)

func answersWith(goals ...string) quiz.Answers {
	a := quiz.Answers{Goals: quiz.SeedGoals()}
	for i := range a.Goals {
		for _, id := range goals {
			if a.Goals[i].ID == id {
				a.Goals[i].Selected = true
			}
		}
	}
	return a
}

func TestSummarizeFillsBenefitsUpToFour(t *testing.T) {
	s := Summarize(answersWith(), time.Now())
	if len(s.Benefits) != 3 {
		t.Fatalf("expected posture plus two fillers, got %d", len(s.Benefits))
	}
	if s.MainGoal != "Melhora geral" {
		t.Fatalf("unexpected main goal %q", s.MainGoal)
	}

	full := Summarize(answersWith(quiz.GoalLoseWeight, quiz.GoalManageMood, quiz.GoalImproveMobility, quiz.GoalImproveHeart), time.Now())
	if len(full.Benefits) != 4 {
		t.Fatalf("expected benefits capped at 4, got %d", len(full.Benefits))
	}
	if full.Benefits[1].Title != "Perda de peso saudável" {
		t.Fatalf("expected weight-loss benefit second, got %q", full.Benefits[1].Title)
	}
}

func TestSummarizePlusBodyTypeBenefit(t *testing.T) {
	a := answersWith(quiz.GoalLoseWeight)
	a.BodyType = quiz.BodyPlus
	s := Summarize(a, time.Now())
	if s.Benefits[1].Description != "Adaptada para seu tipo corporal" {
		t.Fatalf("unexpected description %q", s.Benefits[1].Description)
	}
}

func TestPotentialIsClamped(t *testing.T) {
	bmi := 34.6
	a := answersWith()
	a.ChairYogaExperience = quiz.ExperienceRegular
	a.AvailableTime = quiz.TimeMore45
	a.BodyMassIndex = &bmi

	s := Summarize(a, time.Now())
	if s.Potential != 95 {
		t.Fatalf("expected potential 95, got %d", s.Potential)
	}
	if !s.ShowRiskAlert || s.BMIRisk != "Alto" {
		t.Fatalf("expected risk alert with high risk, got %v %q", s.ShowRiskAlert, s.BMIRisk)
	}

	low := answersWith()
	low.ChairYogaExperience = quiz.ExperienceNever
	low.AvailableTime = quiz.TimeLess15
	if got := Summarize(low, time.Now()).Potential; got != 65 {
		t.Fatalf("expected potential floor 65, got %d", got)
	}
}

func TestTargetDateIsThreeWeeksOut(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := Summarize(answersWith(), now)
	if !s.TargetDate.Equal(now.AddDate(0, 0, 21)) {
		t.Fatalf("unexpected target date %s", s.TargetDate)
	}
}

func TestPrioritizeGoalsKeepsInputIntact(t *testing.T) {
	goals := quiz.SeedGoals()
	ordered := PrioritizeGoals(goals)

	if ordered[0].ID != quiz.GoalImproveMobility || ordered[5].ID != quiz.GoalEnhanceSkin {
		t.Fatalf("unexpected order: %s ... %s", ordered[0].ID, ordered[5].ID)
	}
	if goals[0].ID != quiz.GoalLoseWeight {
		t.Fatal("input slice must not be reordered")
	}
}

func TestHeadlineMentionsMainGoal(t *testing.T) {
	a := answersWith(quiz.GoalBalanceHormones)
	a.ChairYogaExperience = quiz.ExperienceTried
	h := Headline(Summarize(a, time.Now()))
	if !strings.Contains(h, "equilibrar hormônios") || !strings.Contains(h, "7-14 dias") {
		t.Fatalf("unexpected headline %q", h)
	}
}
