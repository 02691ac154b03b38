package quiz

// Goal is a selectable objective. The list and its identifiers are fixed at
// session start; only Selected changes afterwards.
type Goal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Selected    bool   `json:"selected"`
}

const (
	GoalLoseWeight      = "lose-weight"
	GoalManageMood      = "manage-mood"
	GoalBalanceHormones = "balance-hormones"
	GoalImproveMobility = "improve-mobility"
	GoalEnhanceSkin     = "enhance-skin"
	GoalImproveHeart    = "improve-heart"
)

// SeedGoals returns a fresh copy of the goal list rendered on /goals.
func SeedGoals() []Goal {
	return []Goal{
		{
			ID:          GoalLoseWeight,
			Title:       "Perder peso",
			Description: "Queimar esses quilos extras",
			Icon:        "🔥",
		},
		{
			ID:          GoalManageMood,
			Title:       "Controlar mudanças de humor",
			Description: "Sentir-se mais equilibrada e menos estressada",
			Icon:        "🍃",
		},
		{
			ID:          GoalBalanceHormones,
			Title:       "Equilibrar hormônios",
			Description: "Reduzir sintomas da menopausa",
			Icon:        "💧",
		},
		{
			ID:          GoalImproveMobility,
			Title:       "Melhorar mobilidade",
			Description: "Manter as articulações saudáveis e prevenir artrite",
			Icon:        "✅",
		},
		{
			ID:          GoalEnhanceSkin,
			Title:       "Melhorar a pele",
			Description: "Alcançar um brilho mais jovial e reduzir rugas",
			Icon:        "✨",
		},
		{
			ID:          GoalImproveHeart,
			Title:       "Melhorar saúde cardíaca",
			Description: "Controlar pressão arterial e colesterol",
			Icon:        "💜",
		},
	}
}
