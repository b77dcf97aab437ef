package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ngl-chats/internal/ai"
	"ngl-chats/internal/ai/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// withSchema 匹配带有 JSON Schema 的请求
func withSchema(want bool) interface{} {
	return mock.MatchedBy(func(req ai.Request) bool { return (req.Schema != nil) == want })
}

func TestAssistant_AnalyzeMessageSafety_Safe(t *testing.T) {
	gen := new(mocks.Generator)
	gen.On("Generate", mock.Anything, withSchema(true)).Return(`{"safe": true, "reason": "friendly"}`, nil).Once()
	a := ai.NewAssistant(gen, time.Second)

	report := a.AnalyzeMessageSafety(context.Background(), "hello")

	assert.Equal(t, ai.VerdictSafe, report.Verdict)
	assert.Equal(t, ai.LabelSafe, report.Label())
	gen.AssertExpectations(t)
}

func TestAssistant_AnalyzeMessageSafety_Caution(t *testing.T) {
	gen := new(mocks.Generator)
	gen.On("Generate", mock.Anything, withSchema(true)).Return(`{"safe": false, "reason": "targets a person"}`, nil).Once()
	a := ai.NewAssistant(gen, time.Second)

	report := a.AnalyzeMessageSafety(context.Background(), "you know who you are")

	assert.Equal(t, ai.VerdictCaution, report.Verdict)
	assert.Equal(t, "⚠️ Caution: targets a person", report.Label())
}

func TestAssistant_AnalyzeMessageSafety_Fallbacks(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		err   error
		label string
	}{
		{"service error", "", errors.New("503"), ai.LabelAnalysisFailed},
		{"malformed json", "not json", nil, ai.LabelAnalysisFailed},
		{"empty response", "  ", nil, ai.LabelNotAnalyzed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := new(mocks.Generator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tc.text, tc.err).Once()
			a := ai.NewAssistant(gen, time.Second)

			assert.Equal(t, tc.label, a.AnalyzeMessageSafety(context.Background(), "x").Label())
		})
	}
}

func TestAssistant_PolishMessage(t *testing.T) {
	gen := new(mocks.Generator)
	gen.On("Generate", mock.Anything, withSchema(false)).Return("  omg the dining hall slaps today  ", nil).Once()
	a := ai.NewAssistant(gen, time.Second)

	assert.Equal(t, "omg the dining hall slaps today", a.PolishMessage(context.Background(), "food good"))
	gen.AssertExpectations(t)
}

func TestAssistant_PolishMessage_FallsBackToInput(t *testing.T) {
	gen := new(mocks.Generator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return("", nil).Once()
	a := ai.NewAssistant(gen, time.Second)

	assert.Equal(t, "food good", a.PolishMessage(context.Background(), "food good"))
	assert.Equal(t, "food good", a.PolishMessage(context.Background(), "food good"))
}

func TestAssistant_Timeout(t *testing.T) {
	gen := new(mocks.Generator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done() // 模拟永不返回的外部服务
		}).
		Return("", context.DeadlineExceeded)
	a := ai.NewAssistant(gen, 20*time.Millisecond)

	start := time.Now()
	assert.Equal(t, "draft", a.PolishMessage(context.Background(), "draft"))
	assert.Equal(t, ai.VerdictFailed, a.AnalyzeMessageSafety(context.Background(), "draft").Verdict)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDisabledGenerator(t *testing.T) {
	a := ai.NewAssistant(ai.DisabledGenerator{}, 0)

	assert.Equal(t, ai.LabelAnalysisFailed, a.AnalyzeMessageSafety(context.Background(), "x").Label())
	assert.Equal(t, "x", a.PolishMessage(context.Background(), "x"))

	_, err := ai.NewGeminiGenerator(context.Background(), "", "gemini-3-flash-preview")
	assert.True(t, errors.Is(err, ai.ErrDisabled))
}
