package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/chair-yoga/backend/internal/analysis/profile"
	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
)

// Config 控制个性化标题生成。
type Config struct {
	Enabled bool
	Timeout time.Duration
}

// Insight is the profile summary plus the headline shown above it.
type Insight struct {
	Summary  profile.Summary `json:"summary"`
	Headline string          `json:"headline"`
	Source   string          `json:"source"`
}

// Service 使用大模型生成方案标题，不可用时回退到固定模板。
type Service struct {
	enabled bool
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewService builds the headline chain. chatModel may be nil, in which case
// only the template headline is produced.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	svc := &Service{
		enabled: cfg.Enabled && chatModel != nil,
		timeout: timeout,
		logger:  logger.Named("insight"),
		now:     time.Now,
	}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(headlineSystemPrompt),
		schema.UserMessage(headlineUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile headline chain: %w", err)
	}
	svc.chain = runnable
	return svc, nil
}

// Enabled 返回是否使用大模型。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.chain != nil
}

// Describe summarises the answers and attaches a headline.
func (s *Service) Describe(ctx context.Context, answers quiz.Answers) Insight {
	now := time.Now
	if s != nil && s.now != nil {
		now = s.now
	}
	summary := profile.Summarize(answers, now())
	fallback := Insight{Summary: summary, Headline: profile.Headline(summary), Source: "template"}

	if !s.Enabled() {
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.chain.Invoke(callCtx, buildInput(answers, summary))
	if err != nil {
		s.logger.Warn("headline generation failed, use template", zap.Error(err))
		return fallback
	}
	headline := cleanHeadline(msg)
	if headline == "" {
		return fallback
	}
	return Insight{Summary: summary, Headline: headline, Source: "llm"}
}

func buildInput(a quiz.Answers, s profile.Summary) map[string]any {
	goals := make([]string, 0, len(a.Goals))
	for _, g := range a.Goals {
		if g.Selected {
			goals = append(goals, g.Title)
		}
	}
	goalText := "nenhum objetivo específico"
	if len(goals) > 0 {
		goalText = strings.Join(goals, ", ")
	}

	bmi := "não informado"
	if s.BMI != nil {
		bmi = fmt.Sprintf("%.1f (%s)", *s.BMI, s.BMICategory)
	}

	return map[string]any{
		"age":        orUnknown(string(a.AgeRange)),
		"goals":      goalText,
		"body_type":  orUnknown(string(a.BodyType)),
		"dream_body": orUnknown(string(a.DreamBody)),
		"experience": orUnknown(string(a.ChairYogaExperience)),
		"minutes":    s.DailyMinutes,
		"bmi":        bmi,
		"results":    s.TimeToResults,
	}
}

func cleanHeadline(msg *schema.Message) string {
	if msg == nil {
		return ""
	}
	text := strings.TrimSpace(msg.Content)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "\"“”"))
	const maxRunes = 140
	if r := []rune(text); len(r) > maxRunes {
		text = string(r[:maxRunes])
	}
	return text
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "não informado"
	}
	return v
}

const headlineSystemPrompt = "Você escreve títulos curtos e acolhedores para planos de yoga na cadeira voltados a mulheres acima de 35 anos. Responda apenas com uma frase em português do Brasil, sem aspas, com no máximo 140 caracteres. Não prometa resultados médicos."

const headlineUserPrompt = "Faixa etária: {age}\nObjetivos: {goals}\nTipo corporal: {body_type}\nCorpo dos sonhos: {dream_body}\nExperiência: {experience}\nMinutos por dia: {minutes}\nIMC: {bmi}\nPrimeiros resultados: {results}\n\nEscreva o título do plano personalizado."
