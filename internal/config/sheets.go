package config

import (
	"time"

	"github.com/spf13/viper"
)

// SheetsConfig points the result logger at the spreadsheet rows are appended to.
// SpreadsheetID wins over SpreadsheetName when both are set.
type SheetsConfig struct {
	Enabled         bool
	CredentialsFile string
	SpreadsheetID   string
	SpreadsheetName string
	ListFormat      string
	Timeout         time.Duration
}

func LoadSheetsConfig(v *viper.Viper) SheetsConfig {
	v.SetDefault("GSHEET_ENABLED", true)
	v.SetDefault("GSHEET_CREDENTIALS_FILE", "service_account.json")
	v.SetDefault("GSHEET_NAME", "Resume_Analyzer_Logs")
	v.SetDefault("GSHEET_LIST_FORMAT", "joined")
	v.SetDefault("GSHEET_TIMEOUT", 20*time.Second)

	return SheetsConfig{
		Enabled:         v.GetBool("GSHEET_ENABLED"),
		CredentialsFile: v.GetString("GSHEET_CREDENTIALS_FILE"),
		SpreadsheetID:   v.GetString("GSHEET_ID"),
		SpreadsheetName: v.GetString("GSHEET_NAME"),
		ListFormat:      v.GetString("GSHEET_LIST_FORMAT"),
		Timeout:         v.GetDuration("GSHEET_TIMEOUT"),
	}
}
