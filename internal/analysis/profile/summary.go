package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zhouzirui/chair-yoga/backend/internal/funnel"
	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
)

// Benefit 个性化方案中展示的预期收益。
type Benefit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Percentage  string `json:"percentage"`
}

// Summary is the derived profile shown before the sales page.
type Summary struct {
	Benefits      []Benefit          `json:"benefits"`
	TimeToResults string             `json:"timeToResults"`
	Potential     int                `json:"potential"`
	TargetDate    time.Time          `json:"targetDate"`
	BMI           *float64           `json:"bmi,omitempty"`
	BMICategory   funnel.BMICategory `json:"bmiCategory,omitempty"`
	BMIRisk       string             `json:"bmiRisk,omitempty"`
	ShowRiskAlert bool               `json:"showRiskAlert"`
	MainGoal      string             `json:"mainGoal"`
	DailyMinutes  int                `json:"dailyMinutes,omitempty"`
}

const (
	maxBenefits   = 4
	programDays   = 21
	basePotential = 72
)

var goalBenefits = []struct {
	goal    string
	benefit func(quiz.Answers) Benefit
}{
	{quiz.GoalLoseWeight, func(a quiz.Answers) Benefit {
		desc := "Com progressão personalizada"
		if a.BodyType == quiz.BodyPlus {
			desc = "Adaptada para seu tipo corporal"
		}
		return Benefit{Title: "Perda de peso saudável", Description: desc, Percentage: "76%"}
	}},
	{quiz.GoalManageMood, func(quiz.Answers) Benefit {
		return Benefit{Title: "Redução de ansiedade e estresse", Description: "Melhor qualidade de sono e bem-estar diário", Percentage: "89%"}
	}},
	{quiz.GoalImproveMobility, func(quiz.Answers) Benefit {
		return Benefit{Title: "Aumento da flexibilidade", Description: "Movimentos mais fluidos e menos dores articulares", Percentage: "94%"}
	}},
	{quiz.GoalImproveHeart, func(quiz.Answers) Benefit {
		return Benefit{Title: "Melhora da saúde cardiovascular", Description: "Melhor circulação e pressão arterial controlada", Percentage: "78%"}
	}},
}

var fillerBenefits = []Benefit{
	{Title: "Mais energia no dia-a-dia", Description: "Disposição para atividades cotidianas sem cansaço", Percentage: "91%"},
	{Title: "Fortalecimento muscular", Description: "Músculos mais fortes sem impacto nas articulações", Percentage: "87%"},
}

// Summarize derives the profile summary from the collected answers.
func Summarize(a quiz.Answers, now time.Time) Summary {
	s := Summary{
		Benefits:      benefits(a),
		TimeToResults: timeToResults(a.ChairYogaExperience),
		Potential:     potential(a),
		TargetDate:    now.AddDate(0, 0, programDays),
		MainGoal:      mainGoal(a),
		DailyMinutes:  a.AvailableTime.Minutes(),
	}
	if a.BodyMassIndex != nil {
		bmi := *a.BodyMassIndex
		s.BMI = &bmi
		s.BMICategory, s.BMIRisk = funnel.Classify(bmi)
		s.ShowRiskAlert = bmi > 25
	}
	return s
}

func benefits(a quiz.Answers) []Benefit {
	out := []Benefit{{
		Title:       "Melhora significativa da postura",
		Description: "Redução de dores e tensões musculares",
		Percentage:  "82%",
	}}
	for _, gb := range goalBenefits {
		if a.HasGoal(gb.goal) {
			out = append(out, gb.benefit(a))
		}
	}
	for _, filler := range fillerBenefits {
		if len(out) >= maxBenefits {
			break
		}
		out = append(out, filler)
	}
	if len(out) > maxBenefits {
		out = out[:maxBenefits]
	}
	return out
}

func timeToResults(exp quiz.ChairYogaExperience) string {
	switch exp {
	case quiz.ExperienceRegular:
		return "5-7 dias"
	case quiz.ExperienceTried:
		return "7-14 dias"
	default:
		return "14-21 dias"
	}
}

func potential(a quiz.Answers) int {
	score := basePotential
	switch a.ChairYogaExperience {
	case quiz.ExperienceNever:
		score -= 5
	case quiz.ExperienceRegular:
		score += 10
	}
	if a.BodyMassIndex != nil && *a.BodyMassIndex > 30 {
		score += 8
	}
	switch a.AvailableTime {
	case quiz.Time30To45, quiz.TimeMore45:
		score += 5
	case quiz.TimeLess15:
		score -= 3
	}
	if score < 65 {
		score = 65
	}
	if score > 98 {
		score = 98
	}
	return score
}

func mainGoal(a quiz.Answers) string {
	for _, g := range a.Goals {
		if g.Selected {
			return g.Title
		}
	}
	return "Melhora geral"
}

// goalPriority is the display order of the goals screen.
var goalPriority = map[string]int{
	quiz.GoalImproveMobility: 1,
	quiz.GoalBalanceHormones: 2,
	quiz.GoalManageMood:      3,
	quiz.GoalImproveHeart:    4,
	quiz.GoalLoseWeight:      5,
	quiz.GoalEnhanceSkin:     6,
}

// PrioritizeGoals returns the goals in display order. It only affects
// rendering; the flow never depends on it.
func PrioritizeGoals(goals []quiz.Goal) []quiz.Goal {
	out := append([]quiz.Goal(nil), goals...)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].ID) < rank(out[j].ID)
	})
	return out
}

func rank(id string) int {
	if r, ok := goalPriority[id]; ok {
		return r
	}
	return 99
}

// Headline 生成不依赖大模型的方案标题。
func Headline(s Summary) string {
	return fmt.Sprintf("Seu plano de %d dias com foco em %s: primeiros resultados em %s",
		programDays, strings.ToLower(s.MainGoal), s.TimeToResults)
}
