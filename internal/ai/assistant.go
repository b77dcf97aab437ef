package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// 安全检查返回给界面的标签
const (
	LabelSafe           = "✅ Safe to post"
	LabelCautionPrefix  = "⚠️ Caution: "
	LabelNotAnalyzed    = "Could not analyze."
	LabelAnalysisFailed = "Analysis failed."
)

// DefaultTimeout 是单次外部调用的默认超时时间
const DefaultTimeout = 15 * time.Second

const safetyPrompt = `You moderate an anonymous posting app used by college students.
Check the message below for bullying, hate speech, severe toxicity or self-harm.

Message: %q

Answer with a JSON object holding two keys:
1. "safe": boolean
2. "reason": a short explanation of at most 10 words.`

const polishPrompt = `Rewrite this casual message so it reads clearer and more engaging, but keep its informal vibe.

Message: %q`

// safetySchema 约束安全检查的返回结构 {safe: boolean, reason: string}
var safetySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"safe":   {Type: genai.TypeBoolean},
		"reason": {Type: genai.TypeString},
	},
	Required: []string{"safe", "reason"},
}

// Verdict 是安全检查的结论类型。
type Verdict string

const (
	VerdictSafe    Verdict = "safe"
	VerdictCaution Verdict = "caution"
	VerdictUnknown Verdict = "unknown" // 服务返回了空内容
	VerdictFailed  Verdict = "failed"  // 传输、解析或服务错误
)

// SafetyReport 是一次安全检查的结果。
type SafetyReport struct {
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason,omitempty"`
}

// Label 渲染给人看的结果字符串。
func (r SafetyReport) Label() string {
	switch r.Verdict {
	case VerdictSafe:
		return LabelSafe
	case VerdictCaution:
		return LabelCautionPrefix + r.Reason
	case VerdictUnknown:
		return LabelNotAnalyzed
	default:
		return LabelAnalysisFailed
	}
}

// Assistant 提供消息安全检查和润色两个辅助功能。
// 每次调用最多等待 timeout，不做自动重试。
type Assistant struct {
	gen     Generator
	timeout time.Duration
}

// NewAssistant 创建 Assistant。timeout <= 0 时使用 DefaultTimeout。
func NewAssistant(gen Generator, timeout time.Duration) *Assistant {
	if gen == nil {
		panic("Generator cannot be nil for Assistant")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Assistant{gen: gen, timeout: timeout}
}

// AnalyzeMessageSafety 请求外部模型判断消息是否安全。失败时返回 VerdictFailed，不返回错误。
func (a *Assistant) AnalyzeMessageSafety(ctx context.Context, content string) SafetyReport {
	logCtx := logrus.WithField("op", "analyze_safety")

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.Generate(ctx, Request{
		Prompt: fmt.Sprintf(safetyPrompt, content),
		Schema: safetySchema,
	})
	if err != nil {
		logCtx.WithError(err).Error("Safety analysis failed")
		return SafetyReport{Verdict: VerdictFailed}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logCtx.Warn("Safety analysis returned empty response")
		return SafetyReport{Verdict: VerdictUnknown}
	}

	var result struct {
		Safe   bool   `json:"safe"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		logCtx.WithError(err).Error("Failed to parse safety analysis response")
		return SafetyReport{Verdict: VerdictFailed}
	}
	if result.Safe {
		return SafetyReport{Verdict: VerdictSafe, Reason: result.Reason}
	}
	return SafetyReport{Verdict: VerdictCaution, Reason: result.Reason}
}

// PolishMessage 请求外部模型以轻松的语气改写消息。失败或返回空内容时原样返回输入。
func (a *Assistant) PolishMessage(ctx context.Context, content string) string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.Generate(ctx, Request{Prompt: fmt.Sprintf(polishPrompt, content)})
	if err != nil {
		logrus.WithError(err).WithField("op", "polish").Error("Polish request failed")
		return content
	}
	if text = strings.TrimSpace(text); text == "" {
		return content
	}
	return text
}
