package quiz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/chair-yoga/backend/internal/analysis/profile"
	"github.com/zhouzirui/chair-yoga/backend/internal/funnel"
	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/insight"
	quizService "github.com/zhouzirui/chair-yoga/backend/internal/service/quiz"
	"github.com/zhouzirui/chair-yoga/backend/pkg/utils"
)

// Handler 问卷漏斗的HTTP处理器
type Handler struct {
	quizSvc  *quizService.Service
	insights *insight.Service
	logger   *zap.Logger
}

// New 创建问卷处理器。insights 可以为 nil，此时只返回模板标题。
func New(quizSvc *quizService.Service, insights *insight.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		quizSvc:  quizSvc,
		insights: insights,
		logger:   logger.Named("handler.quiz"),
	}
}

// RegisterRoutes 注册问卷相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/steps", h.handleSteps)
	r.Get("/steps/next", h.handleNextStep)
	r.Get("/preserve", h.handlePreserve)
	r.Post("/bmi", h.handleBMI)
	r.Get("/plans", h.handlePlans)

	r.Post("/sessions", h.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(s chi.Router) {
		s.Get("/", h.handleGetSession)
		s.Delete("/", h.handleDeleteSession)
		s.Post("/answers", h.handleAnswer)
		s.Post("/continue", h.handleContinue)
		s.Post("/visit", h.handleVisit)
		s.Post("/lead", h.handleLead)
		s.Post("/checkout", h.handleCheckout)
		s.Get("/summary", h.handleSummary)
	})
}

type stepInfo struct {
	Path      funnel.Step `json:"path"`
	Progress  int         `json:"progress"`
	Selection bool        `json:"selection"`
}

func (h *Handler) handleSteps(w http.ResponseWriter, r *http.Request) {
	steps := funnel.Steps()
	out := make([]stepInfo, 0, len(steps))
	for _, step := range steps {
		out = append(out, stepInfo{
			Path:      step,
			Progress:  funnel.Progress(step),
			Selection: funnel.IsSelectionStep(step),
		})
	}
	h.respond(w, http.StatusOK, map[string]any{"steps": out})
}

func (h *Handler) handleNextStep(w http.ResponseWriter, r *http.Request) {
	current := funnel.Step(r.URL.Query().Get("current"))
	h.respond(w, http.StatusOK, map[string]any{
		"current": current,
		"next":    funnel.Next(current),
	})
}

// handlePreserve 把当前请求中的追踪参数附加到 target 上。
func (h *Handler) handlePreserve(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("target"))
	if target == "" {
		h.respondError(w, http.StatusBadRequest, "target query parameter is required")
		return
	}
	h.respond(w, http.StatusOK, map[string]string{
		"path": funnel.PreserveParams(target, r.URL.RawQuery),
	})
}

func (h *Handler) handleBMI(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		HeightCm  float64        `json:"heightCm"`
		WeightKg  float64        `json:"weightKg"`
		BodyType  quiz.BodyType  `json:"bodyType"`
		DreamBody quiz.DreamBody `json:"dreamBody"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bmi, err := funnel.ComputeBMI(payload.HeightCm, payload.WeightKg)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"bmi":           bmi,
		"idealWeightKg": funnel.IdealWeight(payload.HeightCm, payload.DreamBody, payload.BodyType),
	})
}

func (h *Handler) handlePlans(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]any{
		"plans":       quiz.Offers(),
		"defaultPlan": quiz.DefaultPlan,
	})
}

type queryPayload struct {
	// Query 浏览器地址栏中的查询串，缺省时使用请求自身的查询串。
	Query string `json:"query"`
}

func (p queryPayload) rawQuery(r *http.Request) string {
	if q := strings.TrimSpace(p.Query); q != "" {
		return q
	}
	return r.URL.RawQuery
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload queryPayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.quizSvc.CreateSession(r.Context(), payload.rawQuery(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.quizSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, session)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.quizSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var answer quizService.Answer
	if err := utils.DecodeJSON(r, &answer); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if answer.Field == "" {
		h.respondError(w, http.StatusBadRequest, "field is required")
		return
	}

	session, err := h.quizSvc.Apply(r.Context(), chi.URLParam(r, "sessionID"), answer)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, session)
}

func (h *Handler) handleContinue(w http.ResponseWriter, r *http.Request) {
	var payload queryPayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transition, err := h.quizSvc.Advance(r.Context(), chi.URLParam(r, "sessionID"), payload.rawQuery(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, transition)
}

func (h *Handler) handleVisit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Step funnel.Step `json:"step"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.quizSvc.Visit(r.Context(), chi.URLParam(r, "sessionID"), payload.Step)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, session)
}

func (h *Handler) handleLead(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.quizSvc.CaptureLead(r.Context(), chi.URLParam(r, "sessionID"), payload.Email)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, session)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Plan  quiz.Plan `json:"plan"`
		Email string    `json:"email"`
		queryPayload
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkout, err := h.quizSvc.BeginCheckout(r.Context(), chi.URLParam(r, "sessionID"),
		payload.Plan, payload.Email, payload.rawQuery(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, checkout)
}

type summaryResponse struct {
	insight.Insight
	Goals []quiz.Goal `json:"goals"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	answers, err := h.quizSvc.Answers(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, summaryResponse{
		Insight: h.insights.Describe(r.Context(), answers),
		Goals:   profile.PrioritizeGoals(answers.Goals),
	})
}

// fail 将领域错误映射为HTTP状态码。
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quizService.ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, quizService.ErrStepIncomplete):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, funnel.ErrInvalidAnswer),
		errors.Is(err, funnel.ErrInvalidEmail),
		errors.Is(err, funnel.ErrHeightOutOfRange),
		errors.Is(err, funnel.ErrWeightOutOfRange):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) respond(w http.ResponseWriter, status int, payload any) {
	if err := utils.RespondJSON(w, status, payload); err != nil {
		h.logger.Warn("write response failed", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respond(w, status, utils.ErrorBody{Error: message})
}
