package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	// 导入内部包
	"ngl-chats/internal/ai"
	"ngl-chats/internal/service"
	"ngl-chats/internal/tasks"
)

// Analyzer 执行安全检查并记录结果，由 service.AssistService 实现。
type Analyzer interface {
	AnalyzeAndRecord(ctx context.Context, messageID string) (ai.SafetyReport, error)
}

// SafetyAnalysisHandler 处理后台安全检查任务
type SafetyAnalysisHandler struct {
	analyzer Analyzer
}

// NewSafetyAnalysisHandler 创建 Handler 实例
func NewSafetyAnalysisHandler(analyzer Analyzer) *SafetyAnalysisHandler {
	if analyzer == nil {
		panic("Analyzer cannot be nil for SafetyAnalysisHandler")
	}
	return &SafetyAnalysisHandler{analyzer: analyzer}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *SafetyAnalysisHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
	})

	var payload tasks.SafetyAnalysisPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("message_id", payload.MessageID)

	report, err := h.analyzer.AnalyzeAndRecord(ctx, payload.MessageID)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			logCtx.Warn("Message vanished before analysis, dropping task")
			return fmt.Errorf("message %s not found: %w", payload.MessageID, asynq.SkipRetry)
		}
		logCtx.WithError(err).Error("Failed to process safety analysis task")
		return fmt.Errorf("analyze message %s: %w", payload.MessageID, err)
	}

	logCtx.WithField("verdict", report.Verdict).Info("Safety analysis task processed successfully")
	return nil
}
