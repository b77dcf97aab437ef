package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 定义任务类型常量
const (
	TypeSafetyAnalysis = "message:safety_analysis" // 后台安全检查任务类型
)

// SafetyAnalysisPayload 定义了安全检查任务的数据结构。
// 只传递消息 ID，worker 执行时从 Store 读取最新内容。
type SafetyAnalysisPayload struct {
	MessageID string `json:"message_id"`
}

// NewSafetyAnalysisTask 创建一个新的安全检查任务。外部调用不自动重试。
func NewSafetyAnalysisTask(messageID string) (*asynq.Task, error) {
	payloadBytes, err := json.Marshal(SafetyAnalysisPayload{MessageID: messageID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSafetyAnalysis, payloadBytes, asynq.MaxRetry(0)), nil
}

// Enqueuer 通过 Asynq 把安全检查任务放入 Redis 队列。
type Enqueuer struct {
	client *asynq.Client
	queue  string
}

// NewEnqueuer 创建 Enqueuer。queue 为空时使用 "default"。
func NewEnqueuer(client *asynq.Client, queue string) *Enqueuer {
	if client == nil {
		panic("Asynq client cannot be nil for Enqueuer")
	}
	if queue == "" {
		queue = "default"
	}
	return &Enqueuer{client: client, queue: queue}
}

// Enqueue 实现 service.AnalysisQueue 接口
func (e *Enqueuer) Enqueue(ctx context.Context, messageID string) error {
	task, err := NewSafetyAnalysisTask(messageID)
	if err != nil {
		return fmt.Errorf("build safety analysis task: %w", err)
	}
	if _, err := e.client.EnqueueContext(ctx, task, asynq.Queue(e.queue)); err != nil {
		return fmt.Errorf("enqueue safety analysis for message %s: %w", messageID, err)
	}
	return nil
}
