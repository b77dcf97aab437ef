// Package ai 封装对外部文本生成服务 (Gemini) 的调用。
// 这里的所有失败都会被降级为固定的兜底值，不会向调用方传播。
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrDisabled 表示没有配置 API Key，生成器不可用
var ErrDisabled = errors.New("ai: generator disabled (no API key)")

// Request 是一次生成请求。Schema 非空时要求服务返回符合该结构的 JSON。
type Request struct {
	Prompt string
	Schema *genai.Schema
}

// Generator 发出一次请求并返回生成的文本。
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeminiGenerator 是基于 google.golang.org/genai 的 Generator 实现。
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator 创建 Gemini 客户端。apiKey 为空时返回 ErrDisabled。
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if model == "" {
		return nil, fmt.Errorf("ai: model name cannot be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate 实现 Generator 接口
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var cfg *genai.GenerateContentConfig
	if req.Schema != nil {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.Schema,
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("ai: generate content with %s: %w", g.model, err)
	}
	return resp.Text(), nil
}

// DisabledGenerator 在未配置 API Key 时使用，每次调用都失败，
// 使上层直接走兜底逻辑。
type DisabledGenerator struct{}

// Generate 总是返回 ErrDisabled
func (DisabledGenerator) Generate(context.Context, Request) (string, error) {
	return "", ErrDisabled
}
