package quiz_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/chair-yoga/backend/internal/funnel"
	model "github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/analytics"
	quiz "github.com/zhouzirui/chair-yoga/backend/internal/service/quiz"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (c *capturePublisher) Publish(events ...analytics.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
}

func (c *capturePublisher) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Name)
	}
	return out
}

func newService(cfg quiz.Config) (*quiz.Service, *capturePublisher) {
	pub := &capturePublisher{}
	return quiz.NewService(cfg, pub, nil), pub
}

func TestServiceGetSession(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "utm_source=fb&foo=bar")
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "/", got.Step)
	assert.Equal(t, map[string]string{"utm_source": "fb"}, got.Tracking)
	assert.Equal(t, model.DefaultPlan, got.Answers.SelectedPlan)
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	_, err := svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, quiz.ErrSessionNotFound)
}

func TestContinueFourTimesWithOneGoal(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldGoal, Value: model.GoalLoseWeight})
	require.NoError(t, err)

	var last quiz.Transition
	for i := 0; i < 4; i++ {
		last, err = svc.Advance(ctx, session.ID, "")
		require.NoError(t, err)

		answers, err := svc.Answers(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{model.GoalLoseWeight}, answers.SelectedGoalIDs())
	}

	assert.Equal(t, funnel.Steps()[4], last.To)
	assert.Equal(t, "/target-zones", last.Path)
}

func TestAdvancePreservesTrackingParams(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "?utm_source=fb&utm_campaign=yoga&gclid=1")
	require.NoError(t, err)

	tr, err := svc.Advance(ctx, session.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "/goals?utm_source=fb&utm_campaign=yoga", tr.Path)

	// an explicit current query wins over the landing one
	_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldGoal, Value: model.GoalImproveHeart})
	require.NoError(t, err)
	tr, err = svc.Advance(ctx, session.ID, "subid=7")
	require.NoError(t, err)
	assert.Equal(t, "/body-type?subid=7", tr.Path)
}

func TestAdvanceBlockedWithoutGoal(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, session.ID, "")
	require.NoError(t, err)

	_, err = svc.Advance(ctx, session.ID, "")
	assert.ErrorIs(t, err, quiz.ErrStepIncomplete)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "/goals", got.Step)
}

func TestAdvanceBlockedWithoutBMI(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Visit(ctx, session.ID, funnel.StepBMICalculator)
	require.NoError(t, err)

	_, err = svc.Advance(ctx, session.ID, "")
	require.ErrorIs(t, err, quiz.ErrStepIncomplete)

	got, err := svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldMeasurements, HeightCm: 170, WeightKg: 100})
	require.NoError(t, err)
	require.NotNil(t, got.Answers.BodyMassIndex)
	assert.Equal(t, 34.6, *got.Answers.BodyMassIndex)

	tr, err := svc.Advance(ctx, session.ID, "")
	require.NoError(t, err)
	assert.Equal(t, funnel.StepProfileSummary, tr.To)
}

func TestAdvanceFromLastStepRestarts(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Visit(ctx, session.ID, funnel.StepSuccess)
	require.NoError(t, err)

	tr, err := svc.Advance(ctx, session.ID, "")
	require.NoError(t, err)
	assert.Equal(t, funnel.StepAge, tr.To)
}

func TestVisitUnknownStepResets(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Visit(ctx, session.ID, funnel.StepSales)
	require.NoError(t, err)

	got, err := svc.Visit(ctx, session.ID, "/walking-time")
	require.NoError(t, err)
	assert.Equal(t, "/", got.Step)
	assert.Equal(t, 8, got.Progress)
}

func TestVisitResultsFiresQuizCompleted(t *testing.T) {
	svc, pub := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	got, err := svc.Visit(ctx, session.ID, funnel.StepResults)
	require.NoError(t, err)
	assert.Equal(t, string(funnel.StepResults), got.Step)
	assert.Equal(t, 0, got.Progress)
	assert.Contains(t, pub.names(), analytics.QuizCompleted)

	got, err = svc.Visit(ctx, session.ID, funnel.StepSupport)
	require.NoError(t, err)
	assert.Equal(t, string(funnel.StepSupport), got.Step)
	assert.Equal(t, 75, got.Progress)

	next, err := svc.Advance(ctx, session.ID, "")
	require.NoError(t, err)
	assert.Equal(t, funnel.StepAge, next.To)
}

func TestApplyRejectsInvalidValues(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldAge, Value: "18-24"})
	assert.ErrorIs(t, err, funnel.ErrInvalidAnswer)

	_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: "shoe-size", Value: "38"})
	assert.ErrorIs(t, err, funnel.ErrInvalidAnswer)

	_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldEmail, Value: "maria@"})
	assert.ErrorIs(t, err, funnel.ErrInvalidEmail)

	_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldMeasurements, HeightCm: 100, WeightKg: 70})
	assert.ErrorIs(t, err, funnel.ErrHeightOutOfRange)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Answers.AgeRange)
	assert.Empty(t, got.Answers.Email)
	assert.Nil(t, got.Answers.BodyMassIndex)
}

func TestApplyIndexReplacesMeasurements(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldMeasurements, HeightCm: 170, WeightKg: 70})
	require.NoError(t, err)

	bmi := 40.0
	got, err := svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldBMI, BMI: &bmi})
	require.NoError(t, err)
	require.NotNil(t, got.Answers.BodyMassIndex)
	assert.Equal(t, 40.0, *got.Answers.BodyMassIndex)
	assert.Nil(t, got.Answers.Measurements)
}

func TestApplyUnknownGoalIsIgnored(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	got, err := svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldGoal, Value: "fly"})
	require.NoError(t, err)
	assert.Empty(t, got.Answers.SelectedGoalIDs())
}

func TestStepEventsPublished(t *testing.T) {
	svc, pub := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Visit(ctx, session.ID, funnel.StepSales)
	require.NoError(t, err)
	_, err = svc.CaptureLead(ctx, session.ID, "ana@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{
		analytics.PageView, analytics.ViewContent,
		analytics.PageView, analytics.ViewContent, analytics.SalesPageView,
		analytics.Lead,
	}, pub.names())
}

func TestBeginCheckoutExternal(t *testing.T) {
	svc, pub := newService(quiz.Config{CheckoutURL: "https://pay.example.com/c/yoga"})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "utm_source=ig&subid2=abc")
	require.NoError(t, err)

	out, err := svc.BeginCheckout(ctx, session.ID, model.PlanPremium, "ana@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/c/yoga?utm_source=ig&subid2=abc", out.RedirectURL)
	assert.Equal(t, model.PlanPremium, out.Plan)
	assert.Equal(t, "R$ 19,90", out.Offer.Price)

	answers, err := svc.Answers(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPremium, answers.SelectedPlan)
	assert.Equal(t, "ana@example.com", answers.Email)
	assert.Contains(t, pub.names(), analytics.InitiateCheckout)
}

func TestBeginCheckoutInvalidEmailLeavesPlan(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	_, err = svc.BeginCheckout(ctx, session.ID, model.PlanStarter, "nope", "")
	assert.ErrorIs(t, err, funnel.ErrInvalidEmail)

	answers, err := svc.Answers(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPlan, answers.SelectedPlan)
}

func TestBeginCheckoutInternal(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	out, err := svc.BeginCheckout(ctx, session.ID, "", "", "utm_medium=cpc")
	require.NoError(t, err)
	assert.Equal(t, "/checkout?utm_medium=cpc", out.RedirectURL)
	assert.Equal(t, model.DefaultPlan, out.Plan)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "/checkout", got.Step)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newService(quiz.Config{
		SessionTTL: 30 * time.Minute,
		Now:        func() time.Time { return clock },
	})
	ctx := context.Background()

	old, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	clock = clock.Add(20 * time.Minute)
	fresh, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	removed := svc.Sweep(clock.Add(15 * time.Minute))
	assert.Equal(t, 1, removed)

	_, err = svc.GetSession(ctx, old.ID)
	assert.ErrorIs(t, err, quiz.ErrSessionNotFound)
	_, err = svc.GetSession(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestDeleteSession(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSession(ctx, session.ID))
	assert.ErrorIs(t, svc.DeleteSession(ctx, session.ID), quiz.ErrSessionNotFound)
	assert.Zero(t, svc.Len())
}

func TestIndependentSessionsConcurrently(t *testing.T) {
	svc, _ := newService(quiz.Config{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := svc.CreateSession(ctx, "")
			if !assert.NoError(t, err) {
				return
			}
			_, err = svc.Apply(ctx, session.ID, quiz.Answer{Field: quiz.FieldGoal, Value: model.GoalManageMood})
			assert.NoError(t, err)
			for j := 0; j < 3; j++ {
				_, err = svc.Advance(ctx, session.ID, "")
				assert.NoError(t, err)
			}
			got, err := svc.GetSession(ctx, session.ID)
			assert.NoError(t, err)
			assert.Equal(t, "/dream-body", got.Step)
			assert.Equal(t, []string{model.GoalManageMood}, got.Answers.SelectedGoalIDs())
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, svc.Len())
}
