package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
)

type fakeChatModel struct {
	reply string
	err   error
	seen  []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.seen = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) BindTools([]*schema.ToolInfo) error { return nil }

func sampleAnswers() quiz.Answers {
	a := quiz.Answers{Goals: quiz.SeedGoals(), AgeRange: quiz.Age45To54}
	a.Goals[0].Selected = true
	return a
}

func TestDescribeWithoutModelUsesTemplate(t *testing.T) {
	svc, err := NewService(context.Background(), nil, Config{Enabled: true}, nil)
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	out := svc.Describe(context.Background(), sampleAnswers())
	assert.Equal(t, "template", out.Source)
	assert.Contains(t, out.Headline, "perder peso")
}

func TestDescribeUsesModelReply(t *testing.T) {
	fake := &fakeChatModel{reply: "\"Seu corpo mais leve em 21 dias, sem sair da cadeira\"\nextra"}
	svc, err := NewService(context.Background(), fake, Config{Enabled: true}, nil)
	require.NoError(t, err)
	require.True(t, svc.Enabled())

	out := svc.Describe(context.Background(), sampleAnswers())
	assert.Equal(t, "llm", out.Source)
	assert.Equal(t, "Seu corpo mais leve em 21 dias, sem sair da cadeira", out.Headline)

	require.NotEmpty(t, fake.seen)
	last := fake.seen[len(fake.seen)-1]
	assert.True(t, strings.Contains(last.Content, "45-54"))
	assert.True(t, strings.Contains(last.Content, "Perder peso"))
}

func TestDescribeFallsBackOnModelError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("quota exceeded")}
	svc, err := NewService(context.Background(), fake, Config{Enabled: true}, nil)
	require.NoError(t, err)

	out := svc.Describe(context.Background(), sampleAnswers())
	assert.Equal(t, "template", out.Source)
}

func TestDescribeDisabledByConfig(t *testing.T) {
	svc, err := NewService(context.Background(), &fakeChatModel{reply: "x"}, Config{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Equal(t, "template", svc.Describe(context.Background(), sampleAnswers()).Source)
}
