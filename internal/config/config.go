package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	PDFBackendNative = "native"
	PDFBackendFitz   = "fitz"

	ListFormatJoined = "joined"
	ListFormatJSON   = "json"
)

// Config is read once at startup and handed to the constructors that need it.
type Config struct {
	App        AppConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Sheets     SheetsConfig
	DB         DBConfig
}

// Load reads the configuration from the process environment. Callers load .env
// files (godotenv) before calling it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	cfg := &Config{
		App:        LoadAppConfig(v),
		Gemini:     LoadGeminiConfig(v),
		OpenRouter: LoadOpenRouterConfig(v),
		Sheets:     LoadSheetsConfig(v),
		DB:         LoadDBConfig(v),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.App.LLMProvider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY not set"))
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			errs = append(errs, errors.New("OPENROUTER_API_KEY not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.App.LLMProvider))
	}

	switch c.App.PDFBackend {
	case PDFBackendNative, PDFBackendFitz:
	default:
		errs = append(errs, fmt.Errorf("unknown PDF_BACKEND %q", c.App.PDFBackend))
	}

	if c.Sheets.Enabled {
		switch c.Sheets.ListFormat {
		case ListFormatJoined, ListFormatJSON:
		default:
			errs = append(errs, fmt.Errorf("unknown GSHEET_LIST_FORMAT %q", c.Sheets.ListFormat))
		}
		if c.Sheets.SpreadsheetID == "" && c.Sheets.SpreadsheetName == "" {
			errs = append(errs, errors.New("GSHEET_ID or GSHEET_NAME must be set"))
		}
	}

	if c.DB.Embeddings && c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("HISTORY_EMBEDDINGS requires GEMINI_API_KEY"))
	}

	if c.App.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}

	return errors.Join(errs...)
}
