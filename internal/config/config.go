package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	Mode        string   `mapstructure:"mode"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite file, ":memory:" allowed
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	CookieName  string        `mapstructure:"cookie_name"`
	LoginDelay  time.Duration `mapstructure:"login_delay"`
	SecureClose bool          `mapstructure:"secure_cookie"`
}

// ProcessingConfig bounds the simulated pipeline. Times are in minutes to
// match the API contract; StepFloor is the minimum real sleep per progress
// increment and is zeroed in tests.
type ProcessingConfig struct {
	MinMinutes     int           `mapstructure:"min_minutes"`
	MaxMinutes     int           `mapstructure:"max_minutes"`
	DefaultMinutes int           `mapstructure:"default_minutes"`
	StepFloor      time.Duration `mapstructure:"step_floor"`
	LogPause       time.Duration `mapstructure:"log_pause"`
	Stages         []StageConfig `mapstructure:"stages"`
}

type StageConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Icon     string `mapstructure:"icon"`
	Duration int    `mapstructure:"duration"` // percent of total run time
}

type ModelOption struct {
	Value string `mapstructure:"value" json:"value"`
	Label string `mapstructure:"label" json:"label"`
}

type AnalyticsConfig struct {
	SupportedDomains    []string            `mapstructure:"supported_domains"`
	DomainQuestions     map[string][]string `mapstructure:"domain_questions"`
	AdditionalQuestions []string            `mapstructure:"additional_questions"`
	AnalysisDepths      []string            `mapstructure:"analysis_depths"`
	ReportFormats       []string            `mapstructure:"report_formats"`
	ValidationLevels    []string            `mapstructure:"validation_levels"`
	AvailableModels     []ModelOption       `mapstructure:"available_models"`
	DefaultModel        string              `mapstructure:"default_model"`
	DefaultDomain       string              `mapstructure:"default_domain"`
	MessageDelay        time.Duration       `mapstructure:"message_delay"`
	ThinkingDelay       time.Duration       `mapstructure:"thinking_delay"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Rate    float64       `mapstructure:"rate"` // requests per second per caller
	Burst   int           `mapstructure:"burst"`
	MaxIdle time.Duration `mapstructure:"max_idle"`
}

// Load reads the config file at path (optional; defaults apply when empty or
// missing) with environment variable override.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration, used when no file is given and
// as the base for tests.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("default config unmarshal: %v", err))
	}
	return &cfg
}

func (c *Config) validate() error {
	total := 0
	for _, st := range c.Processing.Stages {
		if st.ID == "" || st.Name == "" {
			return fmt.Errorf("processing stage with empty id or name")
		}
		total += st.Duration
	}
	if total != 100 {
		return fmt.Errorf("processing stage durations sum to %d, want 100", total)
	}
	if c.Processing.MinMinutes > c.Processing.MaxMinutes {
		return fmt.Errorf("processing min_minutes %d exceeds max_minutes %d",
			c.Processing.MinMinutes, c.Processing.MaxMinutes)
	}
	if c.Analytics.DefaultDomain == "" {
		return fmt.Errorf("default_domain is required")
	}
	if len(c.lookupQuestions(c.Analytics.DefaultDomain)) == 0 {
		return fmt.Errorf("default_domain %q has no question set", c.Analytics.DefaultDomain)
	}
	return nil
}

// lookupQuestions matches domain names case-insensitively because viper
// lowercases map keys read from files and defaults.
func (c *Config) lookupQuestions(domain string) []string {
	if qs, ok := c.Analytics.DomainQuestions[domain]; ok {
		return qs
	}
	for name, qs := range c.Analytics.DomainQuestions {
		if strings.EqualFold(name, domain) {
			return qs
		}
	}
	return nil
}

// QuestionsForDomain returns the ambiguity question list for a domain,
// falling back to the default domain's list.
func (c *Config) QuestionsForDomain(domain string) []string {
	if qs := c.lookupQuestions(domain); len(qs) > 0 {
		return append([]string(nil), qs...)
	}
	return append([]string(nil), c.lookupQuestions(c.Analytics.DefaultDomain)...)
}

// InitialQuestionCount reports how many questions the domain starts with,
// before any extension appends from the additional pool.
func (c *Config) InitialQuestionCount(domain string) int {
	return len(c.QuestionsForDomain(domain))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidDepth and friends substitute the default for out-of-range values
// rather than rejecting them.
func (c *Config) ValidDepth(depth string) string {
	if contains(c.Analytics.AnalysisDepths, depth) {
		return depth
	}
	return "moderate"
}

func (c *Config) ValidReportStyle(style string) string {
	if contains(c.Analytics.ReportFormats, style) {
		return style
	}
	return "detailed"
}

func (c *Config) ValidValidationLevel(level string) string {
	if contains(c.Analytics.ValidationLevels, level) {
		return level
	}
	return "medium"
}

func (c *Config) ClampProcessingMinutes(minutes int) int {
	if minutes < c.Processing.MinMinutes || minutes > c.Processing.MaxMinutes {
		return c.Processing.DefaultMinutes
	}
	return minutes
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.cors_origins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3001",
		"https://analytics.bluesherpa.com",
	})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.name", "analytics_engine")
	v.SetDefault("database.path", "analytics_engine.db")

	v.SetDefault("auth.jwt_secret", "blue-sherpa-analytics-secret-key-2025")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_name", "bs_session")
	v.SetDefault("auth.login_delay", time.Second)
	v.SetDefault("auth.secure_cookie", false)

	v.SetDefault("processing.min_minutes", 3)
	v.SetDefault("processing.max_minutes", 30)
	v.SetDefault("processing.default_minutes", 6)
	v.SetDefault("processing.step_floor", time.Second)
	v.SetDefault("processing.log_pause", 800*time.Millisecond)
	v.SetDefault("processing.stages", []map[string]any{
		{"id": "planning", "name": "Planning", "icon": "Database", "duration": 15},
		{"id": "coding", "name": "Coding", "icon": "Code", "duration": 25},
		{"id": "verification", "name": "In-conversation Verification", "icon": "TrendingUp", "duration": 20},
		{"id": "execution", "name": "Execution", "icon": "FileText", "duration": 20},
		{"id": "fixing", "name": "Code-fixing", "icon": "Code", "duration": 10},
		{"id": "optimization", "name": "Plan Optimization", "icon": "TrendingUp", "duration": 5},
		{"id": "summarization", "name": "Summarization", "icon": "FileText", "duration": 5},
	})

	v.SetDefault("analytics.supported_domains", []string{
		"Finance", "Marketing", "Operations", "Sales", "Human Resources",
		"Technology", "Customer Service", "Product Management", "Supply Chain", "Legal",
	})
	v.SetDefault("analytics.default_domain", "Finance")
	v.SetDefault("analytics.analysis_depths", []string{"basic", "moderate", "deep"})
	v.SetDefault("analytics.report_formats", []string{"executive", "detailed", "visual"})
	v.SetDefault("analytics.validation_levels", []string{"low", "medium", "high"})
	v.SetDefault("analytics.default_model", "gpt-4")
	v.SetDefault("analytics.available_models", []map[string]any{
		{"value": "gpt-4", "label": "GPT-4"},
		{"value": "gpt-3.5-turbo", "label": "GPT-3.5 Turbo"},
		{"value": "claude-3", "label": "Claude 3"},
		{"value": "gemini-pro", "label": "Gemini Pro"},
	})
	v.SetDefault("analytics.message_delay", 500*time.Millisecond)
	v.SetDefault("analytics.thinking_delay", time.Second)
	v.SetDefault("analytics.additional_questions", []string{
		"Should I include seasonal adjustments in the analysis?",
		"Do you want to segment by product categories or customer types?",
		"Are there any specific constraints or limitations to consider?",
	})
	v.SetDefault("analytics.domain_questions", map[string][]string{
		"Finance": {
			`By "regional differences" - do you mean geographical regions, sales territories, or market segments?`,
			`For "customer acquisition metrics" - should I include CAC, LTV, or specific conversion rates?`,
		},
		"Marketing": {
			`By "campaign performance" - do you mean ROI, engagement rates, or conversion metrics?`,
			`For "audience segmentation" - should I focus on demographics, behavior, or psychographics?`,
		},
		"Sales": {
			`By "sales performance" - do you mean revenue, volume, or conversion rates?`,
			`For "territory analysis" - should I segment by geography, industry, or account size?`,
		},
		"Operations": {
			`By "operational efficiency" - do you mean cost reduction, time optimization, or quality metrics?`,
			`For "process analysis" - should I focus on bottlenecks, resource allocation, or workflow optimization?`,
		},
		"Human Resources": {
			`By "employee performance" - do you mean productivity, satisfaction, or retention metrics?`,
			`For "workforce analysis" - should I segment by department, role level, or tenure?`,
		},
		"Technology": {
			`By "system performance" - do you mean response time, throughput, or reliability metrics?`,
			`For "technology stack analysis" - should I focus on infrastructure, applications, or security?`,
		},
		"Customer Service": {
			`By "service quality" - do you mean response time, resolution rate, or customer satisfaction?`,
			`For "channel analysis" - should I include phone, email, chat, or all support channels?`,
		},
		"Product Management": {
			`By "product performance" - do you mean usage metrics, feature adoption, or user satisfaction?`,
			`For "product analysis" - should I focus on individual features, product lines, or entire portfolio?`,
		},
		"Supply Chain": {
			`By "supply chain efficiency" - do you mean cost, delivery time, or inventory optimization?`,
			`For "vendor analysis" - should I focus on performance, cost, or risk assessment?`,
		},
		"Legal": {
			`By "legal analysis" - do you mean compliance metrics, case outcomes, or risk assessment?`,
			`For "regulatory focus" - should I prioritize specific jurisdictions or regulations?`,
		},
	})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rate", 20.0)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("rate_limit.max_idle", 10*time.Minute)
}
