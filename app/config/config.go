package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type CorrectorCfg struct {
	Model        string  `yaml:"model" json:"model"`
	TimeoutMs    int     `yaml:"timeout_ms" json:"timeout_ms"`
	MaxAttempts  uint    `yaml:"max_attempts" json:"max_attempts"`
	RetryDelayMs int     `yaml:"retry_delay_ms" json:"retry_delay_ms"`
	JWWeight     float64 `yaml:"jw_weight" json:"jw_weight"`
	LevWeight    float64 `yaml:"lev_weight" json:"lev_weight"`
}

type CascadeCfg struct {
	MinPrimaryResults int `yaml:"min_primary_results" json:"min_primary_results"`
}

type StatsCfg struct {
	HistoryLimit int `yaml:"history_limit" json:"history_limit"`
	RecentWindow int `yaml:"recent_window" json:"recent_window"`
}

type GeocoderCfg struct {
	Provider  string `yaml:"provider" json:"provider"` // nominatim | gazetteer
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	TimeoutMs int    `yaml:"timeout_ms" json:"timeout_ms"`
}

type EngineCfg struct {
	Corrector CorrectorCfg `yaml:"corrector" json:"corrector"`
	Cascade   CascadeCfg   `yaml:"cascade" json:"cascade"`
	Stats     StatsCfg     `yaml:"stats" json:"stats"`
	Geocoder  GeocoderCfg  `yaml:"geocoder" json:"geocoder"`
}

var C EngineCfg

func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &C); err != nil {
		return err
	}
	// ENV overrides
	if provider := os.Getenv("GEOCODER_PROVIDER"); provider != "" {
		C.Geocoder.Provider = provider
	}
	if model := os.Getenv("CORRECTOR_MODEL"); model != "" {
		C.Corrector.Model = model
	}
	return nil
}

func RequestTimeout() time.Duration { return 20 * time.Second }
