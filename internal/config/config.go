package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fleetwatch/internal/classify"
	"fleetwatch/internal/gfw"
)

type Config struct {
	GFWAPIToken string `yaml:"gfw_api_token"`
	GFWBaseURL  string `yaml:"gfw_base_url"`

	HomeFlag     string `yaml:"home_flag"`
	AnalysisYear int    `yaml:"analysis_year"`
	StartDate    string `yaml:"start_date"`
	EndDate      string `yaml:"end_date"`

	MinFishingHours   float64 `yaml:"min_fishing_hours"`
	MaxEnginePowerKw  float64 `yaml:"max_engine_power_kw"`
	MaxLengthMeters   float64 `yaml:"max_length_meters"`
	MaxForeignPortPct float64 `yaml:"max_foreign_port_pct"`
	MaxGapHours       float64 `yaml:"max_gap_hours"`

	OwnershipKeywords map[string]string `yaml:"ownership_keywords"`

	Workers            int `yaml:"workers"`
	PageSize           int `yaml:"page_size"`
	MaxRetries         int `yaml:"max_retries"`
	RetryDelaySeconds  int `yaml:"retry_delay_seconds"`
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`

	OutputPath string `yaml:"output_path"`
	NotesPath  string `yaml:"notes_path"`
	DBPath     string `yaml:"db_path"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	WatchSchedule string `yaml:"watch_schedule"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.GFWAPIToken, "GFW_API_TOKEN")
	envOverride(&cfg.GFWBaseURL, "GFW_BASE_URL")
	envOverride(&cfg.HomeFlag, "HOME_FLAG")
	envOverrideInt(&cfg.AnalysisYear, "ANALYSIS_YEAR")
	envOverride(&cfg.StartDate, "START_DATE")
	envOverride(&cfg.EndDate, "END_DATE")
	envOverrideFloat(&cfg.MinFishingHours, "MIN_FISHING_HOURS")
	envOverrideFloat(&cfg.MaxEnginePowerKw, "MAX_ENGINE_POWER_KW")
	envOverrideFloat(&cfg.MaxLengthMeters, "MAX_LENGTH_METERS")
	envOverrideFloat(&cfg.MaxForeignPortPct, "MAX_FOREIGN_PORT_PCT")
	envOverrideFloat(&cfg.MaxGapHours, "MAX_GAP_HOURS")
	envOverrideInt(&cfg.Workers, "WORKERS")
	envOverrideInt(&cfg.PageSize, "PAGE_SIZE")
	envOverrideInt(&cfg.MaxRetries, "MAX_RETRIES")
	envOverrideInt(&cfg.RetryDelaySeconds, "RETRY_DELAY_SECONDS")
	envOverrideInt(&cfg.HTTPTimeoutSeconds, "HTTP_TIMEOUT_SECONDS")
	envOverride(&cfg.OutputPath, "OUTPUT_PATH")
	envOverride(&cfg.NotesPath, "NOTES_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.WatchSchedule, "WATCH_SCHEDULE")

	// Defaults
	if cfg.GFWBaseURL == "" {
		cfg.GFWBaseURL = gfw.DefaultBaseURL
	}
	if cfg.HomeFlag == "" {
		cfg.HomeFlag = "SEN"
	}
	if cfg.AnalysisYear == 0 && cfg.StartDate == "" {
		cfg.AnalysisYear = time.Now().UTC().Year() - 1
	}
	if cfg.MinFishingHours == 0 {
		cfg.MinFishingHours = 200
	}
	if cfg.MaxEnginePowerKw == 0 {
		cfg.MaxEnginePowerKw = 3000
	}
	if cfg.MaxLengthMeters == 0 {
		cfg.MaxLengthMeters = 50
	}
	if cfg.MaxForeignPortPct == 0 {
		cfg.MaxForeignPortPct = 0.3
	}
	if cfg.MaxGapHours == 0 {
		cfg.MaxGapHours = 48
	}
	if cfg.OwnershipKeywords == nil {
		cfg.OwnershipKeywords = classify.DefaultThresholds().OwnershipKeywords
	}
	if cfg.Workers == 0 {
		cfg.Workers = 10
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelaySeconds == 0 {
		cfg.RetryDelaySeconds = 2
	}
	if cfg.HTTPTimeoutSeconds == 0 {
		cfg.HTTPTimeoutSeconds = 30
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "./fleet_analysis.csv"
	}
	if cfg.WatchSchedule == "" {
		cfg.WatchSchedule = "0 6 * * 1"
	}

	// Validate required fields
	if cfg.GFWAPIToken == "" {
		log.Fatalf("Required config 'gfw_api_token' is not set (via config.yaml or env var)")
	}
	cfg.HomeFlag = strings.ToUpper(cfg.HomeFlag)
	if len(cfg.HomeFlag) != 3 {
		log.Fatalf("invalid home_flag '%s': must be a 3-letter ISO country code", cfg.HomeFlag)
	}
	if cfg.Workers < 1 {
		log.Fatalf("invalid workers '%d': must be >= 1", cfg.Workers)
	}
	if cfg.PageSize < 1 {
		log.Fatalf("invalid page_size '%d': must be >= 1", cfg.PageSize)
	}
	if cfg.MaxForeignPortPct < 0 || cfg.MaxForeignPortPct > 1 {
		log.Fatalf("invalid max_foreign_port_pct '%f': must be between 0 and 1", cfg.MaxForeignPortPct)
	}
	if (cfg.StartDate == "") != (cfg.EndDate == "") {
		log.Fatalf("start_date and end_date must be set together")
	}
	if cfg.StartDate != "" {
		if _, err := time.Parse(time.DateOnly, cfg.StartDate); err != nil {
			log.Fatalf("invalid start_date '%s': %v", cfg.StartDate, err)
		}
		if _, err := time.Parse(time.DateOnly, cfg.EndDate); err != nil {
			log.Fatalf("invalid end_date '%s': %v", cfg.EndDate, err)
		}
	}

	return cfg
}

// Window returns the analysis window: explicit start/end dates when
// configured, otherwise the configured calendar year.
func (c Config) Window() gfw.Window {
	if c.StartDate != "" {
		start, _ := time.Parse(time.DateOnly, c.StartDate)
		end, _ := time.Parse(time.DateOnly, c.EndDate)
		return gfw.Window{Start: start, End: end}
	}
	return gfw.YearWindow(c.AnalysisYear)
}

// Thresholds maps the configured limits into the classifier's form.
func (c Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		HomeFlag:          c.HomeFlag,
		MinFishingHours:   c.MinFishingHours,
		MaxEnginePowerKw:  c.MaxEnginePowerKw,
		MaxLengthMeters:   c.MaxLengthMeters,
		MaxForeignPortPct: c.MaxForeignPortPct,
		MaxGapHours:       c.MaxGapHours,
		OwnershipKeywords: c.OwnershipKeywords,
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
