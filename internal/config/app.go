package config

import (
	"github.com/spf13/viper"
)

type AppConfig struct {
	Name           string
	Env            string
	Port           string
	LogLevel       string
	UploadMaxBytes int64
	PDFBackend     string
	LLMProvider    string
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func LoadAppConfig(v *viper.Viper) AppConfig {
	v.SetDefault("APP_NAME", "resume-analyzer")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	v.SetDefault("PDF_BACKEND", PDFBackendNative)
	v.SetDefault("LLM_PROVIDER", ProviderGemini)

	return AppConfig{
		Name:           v.GetString("APP_NAME"),
		Env:            v.GetString("APP_ENV"),
		Port:           v.GetString("APP_PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		UploadMaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		PDFBackend:     v.GetString("PDF_BACKEND"),
		LLMProvider:    v.GetString("LLM_PROVIDER"),
	}
}
