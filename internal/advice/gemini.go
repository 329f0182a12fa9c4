package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrMissingAPIKey 未配置 API key
var ErrMissingAPIKey = errors.New("advice: missing API key")

// GeminiOptions Gemini generateContent 调用参数
type GeminiOptions struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	// ThinkingBudget 思考 token 上限，<= 0 时不发送
	ThinkingBudget int
	Timeout        time.Duration
}

// Gemini 通过 REST 接口请求建议
type Gemini struct {
	opts   GeminiOptions
	client *http.Client
}

// NewGemini 创建 Gemini 建议器，client 为 nil 时使用带超时的默认客户端
func NewGemini(opts GeminiOptions, client *http.Client) *Gemini {
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Gemini{opts: opts, client: client}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type generationConfig struct {
	Temperature     float64         `json:"temperature"`
	MaxOutputTokens int             `json:"maxOutputTokens"`
	ThinkingConfig  *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type generateRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Advise 发送提示并返回模型回答的文本，没有候选时返回空串
func (g *Gemini) Advise(ctx context.Context, req Request) (string, error) {
	if g.opts.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	genCfg := generationConfig{
		Temperature:     g.opts.Temperature,
		MaxOutputTokens: g.opts.MaxTokens,
	}
	if g.opts.ThinkingBudget > 0 {
		genCfg.ThinkingConfig = &thinkingConfig{ThinkingBudget: g.opts.ThinkingBudget}
	}

	body, err := json.Marshal(generateRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: Prompt(req)}},
		}},
		GenerationConfig: genCfg,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.opts.Endpoint, "/"), g.opts.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.opts.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}
