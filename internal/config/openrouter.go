package config

import (
	"time"

	"github.com/spf13/viper"
)

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func LoadOpenRouterConfig(v *viper.Viper) OpenRouterConfig {
	v.SetDefault("OPENROUTER_MODEL", "openai/gpt-4o-mini")
	v.SetDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("OPENROUTER_TIMEOUT", 45*time.Second)

	return OpenRouterConfig{
		APIKey:  v.GetString("OPENROUTER_API_KEY"),
		Model:   v.GetString("OPENROUTER_MODEL"),
		BaseURL: v.GetString("OPENROUTER_BASE_URL"),
		Timeout: v.GetDuration("OPENROUTER_TIMEOUT"),
	}
}
