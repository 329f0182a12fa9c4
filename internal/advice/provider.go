package advice

import (
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/sette-e-mezzo/internal/config"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
)

// FromConfig 按配置组装建议器。gemini 缺少 API key 时退回离线建议。
func FromConfig(cfg config.AdviceConfig, rdb *redis.Client) Advisor {
	if cfg.Provider != config.ProviderGemini {
		return NewHeuristic()
	}
	if cfg.APIKey == "" {
		logger.LogInfo("advice: no API key configured, using heuristic advisor")
		return NewHeuristic()
	}

	gemini := NewGemini(GeminiOptions{
		Endpoint:       cfg.Endpoint,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		Temperature:    cfg.Temperature,
		MaxTokens:      cfg.MaxTokens,
		ThinkingBudget: cfg.ThinkingBudget,
		Timeout:        cfg.Timeout(),
	}, nil)
	return NewCached(gemini, rdb, cfg.CacheTTL())
}
