// internal/workers/ai-conversation/detect-intent/config.go
package detectintent

import (
	"time"

	"kisan-intent/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	IncludeScores bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createConfigFromAppConfig(app *config.Config) *Config {
	cfg := LoadConfig()
	if app == nil {
		return cfg
	}
	if wc := config.GetWorkerConfig(app, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	cfg.IncludeScores = app.Detector.IncludeScores
	return cfg
}
