package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 客户端和服务端共用的配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Advice AdviceConfig `yaml:"advice"`
	Sound  SoundConfig  `yaml:"sound"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 牌桌参数
type GameConfig struct {
	InitialBalance int `yaml:"initial_balance"`
	MinBet         int `yaml:"min_bet"`
	BetStep        int `yaml:"bet_step"`
	DrawDelayMs    int `yaml:"draw_delay_ms"`   // 自动要牌前的停顿（毫秒）
	SettleDelayMs  int `yaml:"settle_delay_ms"` // CPU 回合结束前的停顿（毫秒）
}

// DrawDelay 返回自动要牌的停顿
func (c *GameConfig) DrawDelay() time.Duration {
	return time.Duration(c.DrawDelayMs) * time.Millisecond
}

// SettleDelay 返回 CPU 回合结束的停顿
func (c *GameConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// 建议服务提供方
const (
	ProviderGemini    = "gemini"
	ProviderHeuristic = "heuristic"
)

// AdviceConfig 出牌建议配置
type AdviceConfig struct {
	Provider        string  `yaml:"provider"`
	Endpoint        string  `yaml:"endpoint"`
	Model           string  `yaml:"model"`
	APIKey          string  `yaml:"api_key"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
	ThinkingBudget  int     `yaml:"thinking_budget"` // 0 表示不限制
	CacheTTLMinutes int     `yaml:"cache_ttl_minutes"`
}

// Timeout 返回单次请求超时
func (c *AdviceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL 返回缓存有效期
func (c *AdviceConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// SoundConfig 音效配置
type SoundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Load 加载配置文件，再用 .env 和环境变量覆盖
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	LoadEnv(cfg)
	return cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1780,
			MaxConnections: 1000,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			InitialBalance: 500,
			MinBet:         10,
			BetStep:        10,
			DrawDelayMs:    800,
			SettleDelayMs:  400,
		},
		Advice: AdviceConfig{
			Provider:        ProviderHeuristic,
			Endpoint:        "https://generativelanguage.googleapis.com/v1beta",
			Model:           "gemini-3-flash-preview",
			TimeoutSeconds:  10,
			Temperature:     0.7,
			MaxTokens:       300,
			ThinkingBudget:  100,
			CacheTTLMinutes: 30,
		},
		Sound: SoundConfig{
			Enabled: true,
			Dir:     "assets/sounds",
		},
	}
}

// 文件里写成 0 的字段回落到默认值
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.MaxConnections <= 0 {
		cfg.Server.MaxConnections = def.Server.MaxConnections
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = def.Redis.Addr
	}
	if cfg.Game.InitialBalance <= 0 {
		cfg.Game.InitialBalance = def.Game.InitialBalance
	}
	if cfg.Game.MinBet <= 0 {
		cfg.Game.MinBet = def.Game.MinBet
	}
	if cfg.Game.BetStep <= 0 {
		cfg.Game.BetStep = def.Game.BetStep
	}
	if cfg.Game.DrawDelayMs < 0 {
		cfg.Game.DrawDelayMs = def.Game.DrawDelayMs
	}
	if cfg.Game.SettleDelayMs < 0 {
		cfg.Game.SettleDelayMs = def.Game.SettleDelayMs
	}
	if cfg.Advice.Provider == "" {
		cfg.Advice.Provider = def.Advice.Provider
	}
	if cfg.Advice.Endpoint == "" {
		cfg.Advice.Endpoint = def.Advice.Endpoint
	}
	if cfg.Advice.Model == "" {
		cfg.Advice.Model = def.Advice.Model
	}
	if cfg.Advice.TimeoutSeconds <= 0 {
		cfg.Advice.TimeoutSeconds = def.Advice.TimeoutSeconds
	}
	if cfg.Advice.MaxTokens <= 0 {
		cfg.Advice.MaxTokens = def.Advice.MaxTokens
	}
	if cfg.Advice.CacheTTLMinutes <= 0 {
		cfg.Advice.CacheTTLMinutes = def.Advice.CacheTTLMinutes
	}
	if cfg.Sound.Dir == "" {
		cfg.Sound.Dir = def.Sound.Dir
	}
}

// LoadEnv 读取工作目录下的 .env（不存在时忽略），然后用环境变量覆盖配置
func LoadEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Game.InitialBalance, "GAME_INITIAL_BALANCE")
	setInt(&cfg.Game.MinBet, "GAME_MIN_BET")
	setInt(&cfg.Game.DrawDelayMs, "GAME_DRAW_DELAY_MS")
	setString(&cfg.Advice.Provider, "ADVICE_PROVIDER")
	setString(&cfg.Advice.APIKey, "API_KEY")
	setString(&cfg.Advice.APIKey, "GEMINI_API_KEY")
	setBool(&cfg.Sound.Enabled, "SOUND_ENABLED")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
