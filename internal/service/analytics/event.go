package analytics

import (
	"time"

	"github.com/zhouzirui/chair-yoga/backend/internal/funnel"
)

// Pixel event names.
const (
	CompleteRegistration = "CompleteRegistration"
	Lead                 = "Lead"
	ViewContent          = "ViewContent"
	AddToCart            = "AddToCart"
	InitiateCheckout     = "InitiateCheckout"
	AddPaymentInfo       = "AddPaymentInfo"
	Purchase             = "Purchase"
	PageView             = "PageView"

	QuizCompleted = "QuizCompleted"
	SalesPageView = "SalesPageView"
)

// Event 一次埋点通知。
type Event struct {
	Name      string         `json:"name"`
	SessionID string         `json:"sessionId,omitempty"`
	Step      funnel.Step    `json:"step,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Time      time.Time      `json:"time"`
}

// StepEvents returns the notifications fired when a session lands on step.
func StepEvents(sessionID string, step funnel.Step, now time.Time) []Event {
	events := []Event{
		{Name: PageView, SessionID: sessionID, Step: step, Time: now},
		{
			Name:      ViewContent,
			SessionID: sessionID,
			Step:      step,
			Params: map[string]any{
				"content_name":     string(step),
				"content_category": "page_view",
			},
			Time: now,
		},
	}

	var extra string
	switch step {
	case funnel.StepResults:
		extra = QuizCompleted
	case funnel.StepSales:
		extra = SalesPageView
	case funnel.StepCheckout:
		extra = InitiateCheckout
	case funnel.StepSuccess:
		extra = Purchase
	}
	if extra != "" {
		events = append(events, Event{Name: extra, SessionID: sessionID, Step: step, Time: now})
	}
	return events
}

// LeadEvent is fired when the sales-page form captures an email.
func LeadEvent(sessionID string, now time.Time) Event {
	return Event{
		Name:      Lead,
		SessionID: sessionID,
		Step:      funnel.StepSales,
		Params: map[string]any{
			"content_name":     "sales_page_form",
			"content_category": "lead_capture",
		},
		Time: now,
	}
}

// CheckoutEvent is fired before redirecting to the external checkout.
func CheckoutEvent(sessionID string, plan string, now time.Time) Event {
	return Event{
		Name:      InitiateCheckout,
		SessionID: sessionID,
		Step:      funnel.StepSales,
		Params: map[string]any{
			"currency":     "BRL",
			"value":        197.0,
			"content_name": "Yoga na Cadeira Premium",
			"plan":         plan,
		},
		Time: now,
	}
}
