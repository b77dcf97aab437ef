package service

import (
	"context"
	"strings"

	"ngl-chats/internal/ai"
	"ngl-chats/internal/store"

	"github.com/sirupsen/logrus"
)

// AnalysisQueue 把消息安全检查放到后台执行。
type AnalysisQueue interface {
	Enqueue(ctx context.Context, messageID string) error
}

// AssistService 负责 AI 辅助功能：发帖前润色，以及管理员审核时的安全检查。
type AssistService struct {
	store     *store.Store
	assistant *ai.Assistant
	queue     AnalysisQueue
}

// NewAssistService 创建 AssistService 实例。queue 可以稍后通过 SetQueue 设置。
func NewAssistService(st *store.Store, assistant *ai.Assistant) *AssistService {
	if st == nil {
		panic("Store cannot be nil for AssistService")
	}
	if assistant == nil {
		panic("Assistant cannot be nil for AssistService")
	}
	return &AssistService{store: st, assistant: assistant}
}

// SetQueue 设置后台分析队列。
func (s *AssistService) SetQueue(q AnalysisQueue) {
	s.queue = q
}

// Polish 返回润色后的草稿；外部服务失败时原样返回。
func (s *AssistService) Polish(ctx context.Context, content string) (string, error) {
	if _, err := requireUser(s.store); err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrInvalidInput
	}
	return s.assistant.PolishMessage(ctx, content), nil
}

// AnalyzeMessage 同步执行安全检查并把结果标签记录到消息上。只有群组管理员可以调用。
func (s *AssistService) AnalyzeMessage(ctx context.Context, messageID string) (ai.SafetyReport, error) {
	if _, err := requireGroupAdmin(s.store, messageID); err != nil {
		return ai.SafetyReport{}, err
	}
	return s.AnalyzeAndRecord(ctx, messageID)
}

// QueueAnalysis 把安全检查放入后台队列。只有群组管理员可以调用。
func (s *AssistService) QueueAnalysis(ctx context.Context, messageID string) error {
	if _, err := requireGroupAdmin(s.store, messageID); err != nil {
		return err
	}
	if s.queue == nil {
		return ErrQueueUnavailable
	}
	if err := s.queue.Enqueue(ctx, messageID); err != nil {
		logrus.WithError(err).WithField("message_id", messageID).Error("Failed to enqueue safety analysis")
		return ErrQueueUnavailable
	}
	logrus.WithField("message_id", messageID).Info("Safety analysis queued")
	return nil
}

// AnalyzeAndRecord 执行安全检查并写回 Store，不做权限检查 (由入队时检查)。
// 后台 worker 直接调用此方法。
func (s *AssistService) AnalyzeAndRecord(ctx context.Context, messageID string) (ai.SafetyReport, error) {
	logCtx := logrus.WithField("message_id", messageID)

	msg, err := s.store.Message(messageID)
	if err != nil {
		return ai.SafetyReport{}, mapStoreError(err)
	}

	report := s.assistant.AnalyzeMessageSafety(ctx, msg.Content)
	if _, err := s.store.SetMessageAnalysis(messageID, report.Label()); err != nil {
		logCtx.WithError(err).Error("Failed to record safety analysis")
		return report, mapStoreError(err)
	}
	logCtx.WithField("verdict", report.Verdict).Info("Safety analysis recorded")
	return report, nil
}

// InlineQueue 在没有 Redis 时使用：每个任务在独立的 goroutine 中立即执行。
type InlineQueue struct {
	assist *AssistService
	ctx    context.Context
}

// NewInlineQueue 创建 InlineQueue。ctx 控制后台任务的生命周期。
func NewInlineQueue(ctx context.Context, assist *AssistService) *InlineQueue {
	if assist == nil {
		panic("AssistService cannot be nil for InlineQueue")
	}
	return &InlineQueue{assist: assist, ctx: ctx}
}

// Enqueue 实现 AnalysisQueue 接口
func (q *InlineQueue) Enqueue(_ context.Context, messageID string) error {
	go func() {
		if _, err := q.assist.AnalyzeAndRecord(q.ctx, messageID); err != nil {
			logrus.WithError(err).WithField("message_id", messageID).Warn("Inline safety analysis failed")
		}
	}()
	return nil
}
