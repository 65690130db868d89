package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	Embeddings bool
}

// Enabled reports whether the analysis history store is configured.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
	)
}

func LoadDBConfig(v *viper.Viper) DBConfig {
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("HISTORY_EMBEDDINGS", false)

	return DBConfig{
		Host:       v.GetString("DB_HOST"),
		Port:       v.GetString("DB_PORT"),
		User:       v.GetString("DB_USER"),
		Password:   v.GetString("DB_PASSWORD"),
		Name:       v.GetString("DB_NAME"),
		SSLMode:    v.GetString("DB_SSLMODE"),
		Embeddings: v.GetBool("HISTORY_EMBEDDINGS"),
	}
}
