package quiz

// Plan 销售页可选套餐。
type Plan string

const (
	PlanStarter  Plan = "starter"
	PlanComplete Plan = "complete"
	PlanPremium  Plan = "premium"
)

// DefaultPlan is preselected on the sales page.
const DefaultPlan = PlanComplete

func (p Plan) Valid() bool {
	switch p {
	case PlanStarter, PlanComplete, PlanPremium:
		return true
	}
	return false
}

// PlanOffer 套餐展示信息。
type PlanOffer struct {
	ID    Plan   `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Offers lists the checkout labels for every plan.
func Offers() []PlanOffer {
	return []PlanOffer{
		{ID: PlanStarter, Name: "Método Essencial", Price: "R$ 19,90"},
		{ID: PlanComplete, Name: "Método Completo", Price: "R$ 19,90"},
		{ID: PlanPremium, Name: "Método Completo", Price: "R$ 19,90"},
	}
}

// OfferFor looks up the checkout label of a plan.
func OfferFor(p Plan) (PlanOffer, bool) {
	for _, offer := range Offers() {
		if offer.ID == p {
			return offer, true
		}
	}
	return PlanOffer{}, false
}
