// Package mocks 提供 testify 的 Mock 实现。
package mocks

import (
	"context"

	"ngl-chats/internal/ai"

	"github.com/stretchr/testify/mock"
)

// Generator 是 ai.Generator 的 Mock
type Generator struct {
	mock.Mock
}

// Generate 记录调用并返回预设的结果
func (m *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
