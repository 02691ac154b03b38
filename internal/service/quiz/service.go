package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/chair-yoga/backend/internal/funnel"
	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/analytics"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStepIncomplete  = errors.New("step incomplete")
)

// Publisher receives fire-and-forget analytics notifications.
type Publisher interface {
	Publish(events ...analytics.Event)
}

// Config 会话服务配置。
type Config struct {
	// SessionTTL discards sessions idle for longer than this. Zero keeps them.
	SessionTTL time.Duration
	// CheckoutURL is the external payment page; empty keeps checkout in-funnel.
	CheckoutURL string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Transition describes one "continue" action.
type Transition struct {
	From funnel.Step `json:"from"`
	To   funnel.Step `json:"to"`
	Path string      `json:"path"`
}

// Checkout is the result of submitting the sales-page form.
type Checkout struct {
	Plan        quiz.Plan      `json:"plan"`
	Offer       quiz.PlanOffer `json:"offer"`
	RedirectURL string         `json:"redirectUrl"`
}

type session struct {
	id        string
	store     *funnel.Store
	step      funnel.Step
	query     string
	createdAt time.Time
	updatedAt time.Time
}

// Service keeps funnel sessions in memory. Each session owns its own store;
// the service lock serialises writers.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	events      Publisher
	logger      *zap.Logger
	ttl         time.Duration
	checkoutURL string
	now         func() time.Time
}

// NewService bootstraps the in-memory session registry.
func NewService(cfg Config, events Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		sessions:    make(map[string]*session),
		events:      events,
		logger:      logger.Named("quiz"),
		ttl:         cfg.SessionTTL,
		checkoutURL: cfg.CheckoutURL,
		now:         now,
	}
}

// CreateSession starts a session on the first step. rawQuery is the landing
// page query string; its tracking parameters are kept for later navigation.
func (s *Service) CreateSession(_ context.Context, rawQuery string) (quiz.Session, error) {
	now := s.now()
	sess := &session{
		id:        uuid.NewString(),
		store:     funnel.NewStore(),
		step:      funnel.First(),
		query:     funnel.TrackingParams(rawQuery).Encode(),
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	view := sess.view()
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session", sess.id))
	s.publish(analytics.StepEvents(sess.id, sess.step, now)...)
	return view, nil
}

// GetSession returns a snapshot of the session.
func (s *Service) GetSession(_ context.Context, id string) (quiz.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return quiz.Session{}, ErrSessionNotFound
	}
	return sess.view(), nil
}

// DeleteSession ends a session.
func (s *Service) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Apply records one answer. The session is left untouched when the answer is
// rejected.
func (s *Service) Apply(_ context.Context, id string, answer Answer) (quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return quiz.Session{}, ErrSessionNotFound
	}
	if err := applyAnswer(sess.store, answer); err != nil {
		return quiz.Session{}, err
	}
	sess.updatedAt = s.now()
	return sess.view(), nil
}

// Advance moves the session to the next step and returns the path to
// navigate to, tracking parameters included. rawQuery is the current page
// query; when empty the landing parameters are used.
func (s *Service) Advance(_ context.Context, id, rawQuery string) (Transition, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Transition{}, ErrSessionNotFound
	}
	if err := checkComplete(sess); err != nil {
		s.mu.Unlock()
		return Transition{}, err
	}

	from := sess.step
	to := funnel.Next(from)
	if rawQuery == "" {
		rawQuery = sess.query
	}
	now := s.now()
	sess.step = to
	sess.updatedAt = now
	s.mu.Unlock()

	s.publish(analytics.StepEvents(id, to, now)...)
	return Transition{From: from, To: to, Path: funnel.PreserveParams(string(to), rawQuery)}, nil
}

// Visit records direct navigation (back button, deep link). Steps without a
// screen reset the session to the first step.
func (s *Service) Visit(_ context.Context, id string, step funnel.Step) (quiz.Session, error) {
	if !funnel.Routable(step) {
		step = funnel.First()
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return quiz.Session{}, ErrSessionNotFound
	}
	now := s.now()
	sess.step = step
	sess.updatedAt = now
	view := sess.view()
	s.mu.Unlock()

	s.publish(analytics.StepEvents(id, step, now)...)
	return view, nil
}

// CaptureLead stores the email entered on the sales page.
func (s *Service) CaptureLead(_ context.Context, id, email string) (quiz.Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return quiz.Session{}, ErrSessionNotFound
	}
	if err := sess.store.SetEmail(email); err != nil {
		s.mu.Unlock()
		return quiz.Session{}, err
	}
	now := s.now()
	sess.updatedAt = now
	view := sess.view()
	s.mu.Unlock()

	s.publish(analytics.LeadEvent(id, now))
	return view, nil
}

// BeginCheckout records the chosen plan and email and returns where the
// browser should go to pay.
func (s *Service) BeginCheckout(_ context.Context, id string, plan quiz.Plan, email, rawQuery string) (Checkout, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Checkout{}, ErrSessionNotFound
	}
	if plan == "" {
		plan = sess.store.Snapshot().SelectedPlan
	}
	if email != "" && !funnel.ValidEmail(strings.TrimSpace(email)) {
		s.mu.Unlock()
		return Checkout{}, funnel.ErrInvalidEmail
	}
	if err := sess.store.SetSelectedPlan(plan); err != nil {
		s.mu.Unlock()
		return Checkout{}, err
	}
	if email != "" {
		_ = sess.store.SetEmail(email)
	}
	if rawQuery == "" {
		rawQuery = sess.query
	}

	now := s.now()
	target := s.checkoutURL
	internal := target == ""
	if internal {
		target = string(funnel.StepCheckout)
		sess.step = funnel.StepCheckout
	}
	sess.updatedAt = now
	s.mu.Unlock()

	events := []analytics.Event{analytics.CheckoutEvent(id, string(plan), now)}
	if internal {
		events = append(events, analytics.StepEvents(id, funnel.StepCheckout, now)...)
	}
	s.publish(events...)

	offer, _ := quiz.OfferFor(plan)
	return Checkout{
		Plan:        plan,
		Offer:       offer,
		RedirectURL: funnel.PreserveParams(target, rawQuery),
	}, nil
}

// Answers returns a copy of the collected answers.
func (s *Service) Answers(_ context.Context, id string) (quiz.Answers, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return quiz.Answers{}, ErrSessionNotFound
	}
	return sess.store.Snapshot(), nil
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep discards sessions idle since before now-TTL and reports how many.
func (s *Service) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.updatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				s.logger.Info("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *Service) publish(events ...analytics.Event) {
	if s.events == nil || len(events) == 0 {
		return
	}
	s.events.Publish(events...)
}

// checkComplete keeps the session on steps that need an answer first.
func checkComplete(sess *session) error {
	switch sess.step {
	case funnel.StepGoals:
		if sess.store.SelectedGoalsCount() == 0 {
			return fmt.Errorf("%w: select at least one goal", ErrStepIncomplete)
		}
	case funnel.StepBMICalculator:
		if sess.store.Snapshot().BodyMassIndex == nil {
			return fmt.Errorf("%w: body mass index not computed", ErrStepIncomplete)
		}
	}
	return nil
}

func (sess *session) view() quiz.Session {
	var tracking map[string]string
	if sess.query != "" {
		params := funnel.TrackingParams(sess.query)
		tracking = make(map[string]string, len(params))
		for k := range params {
			tracking[k] = params.Get(k)
		}
	}
	return quiz.Session{
		ID:        sess.id,
		Step:      string(sess.step),
		Progress:  funnel.Progress(sess.step),
		Answers:   sess.store.Snapshot(),
		Tracking:  tracking,
		CreatedAt: sess.createdAt,
		UpdatedAt: sess.updatedAt,
	}
}
