package config

import (
	"time"

	"github.com/spf13/viper"
)

type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Temperature    float32
	Timeout        time.Duration
}

func LoadGeminiConfig(v *viper.Viper) GeminiConfig {
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001")
	v.SetDefault("GEMINI_TEMPERATURE", 0.3)
	v.SetDefault("GEMINI_TIMEOUT", 45*time.Second)

	return GeminiConfig{
		APIKey:         v.GetString("GEMINI_API_KEY"),
		Model:          v.GetString("GEMINI_MODEL"),
		EmbeddingModel: v.GetString("GEMINI_EMBEDDING_MODEL"),
		Temperature:    float32(v.GetFloat64("GEMINI_TEMPERATURE")),
		Timeout:        v.GetDuration("GEMINI_TIMEOUT"),
	}
}
