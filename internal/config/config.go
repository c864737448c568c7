package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BESTCRAWL_OUTPUT_DIR.
const EnvPrefix = "BESTCRAWL"

// Config holds all configuration for the application
type Config struct {
	WConcept   WConceptConfig   `mapstructure:"wconcept" validate:"required"`
	Brands     []string         `mapstructure:"brands" validate:"required,min=1,dive,required"`
	Output     OutputConfig     `mapstructure:"output" validate:"required"`
	Export     ExportConfig     `mapstructure:"export"`
	Categories CategoriesConfig `mapstructure:"categories" validate:"required"`
	Report     ReportConfig     `mapstructure:"report" validate:"required"`
	Log        LogConfig        `mapstructure:"log"`
}

// WConceptConfig holds the best page and product API settings
type WConceptConfig struct {
	BestPageURL          string   `mapstructure:"best_page_url" validate:"required,url"`
	ProductEndpoint      string   `mapstructure:"product_endpoint" validate:"required,url"`
	Origin               string   `mapstructure:"origin" validate:"omitempty,url"`
	Referer              string   `mapstructure:"referer" validate:"omitempty,url"`
	UserAgent            string   `mapstructure:"user_agent"`
	APIKey               string   `mapstructure:"api_key"`
	Timeout              int      `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries           int      `mapstructure:"max_retries" validate:"gt=0"`
	RetryBackoff         int      `mapstructure:"retry_backoff" validate:"gte=0"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second" validate:"gt=0"`
	Proxies              []string `mapstructure:"proxies" validate:"dive,url"`

	// Listing filters sent with every product request
	Domain     string `mapstructure:"domain" validate:"required"`
	GenderType string `mapstructure:"gender_type" validate:"required"`
	DateType   string `mapstructure:"date_type" validate:"required,oneof=daily weekly monthly"`
	AgeGroup   string `mapstructure:"age_group" validate:"required"`
}

// RequestTimeout returns the per-request timeout
func (c WConceptConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// OutputConfig holds where snapshots and reports land
type OutputConfig struct {
	Dir        string `mapstructure:"dir" validate:"required"`
	FilePrefix string `mapstructure:"file_prefix" validate:"required"`
	Timezone   string `mapstructure:"timezone" validate:"required"`
}

// Location resolves the configured timezone
func (c OutputConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExportConfig holds per-run export switches, usually set from flags
type ExportConfig struct {
	PageSize           int  `mapstructure:"page_size" validate:"gt=0"`
	MaxPages           int  `mapstructure:"max_pages" validate:"gte=0"`
	SkipCategoryUpdate bool `mapstructure:"skip_category_update"`
	TestMode           bool `mapstructure:"test_mode"`
}

// CategoriesConfig holds the category cache location
type CategoriesConfig struct {
	CacheFile string `mapstructure:"cache_file" validate:"required"`
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	LinkBaseURL string `mapstructure:"link_base_url" validate:"omitempty,url"`
	Title       string `mapstructure:"title" validate:"required"`
	Source      string `mapstructure:"source" validate:"required"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Dir         string `mapstructure:"dir"`
	Name        string `mapstructure:"name" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
	Console     bool   `mapstructure:"console"`
	CriticalLog bool   `mapstructure:"critical_log"`
	MaxAgeDays  int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// FlagBindings maps config keys to CLI flag names.
var FlagBindings = map[string]string{
	"output.dir":                  "output-dir",
	"export.page_size":            "page-size",
	"export.max_pages":            "max-pages",
	"export.skip_category_update": "skip-category-update",
	"export.test_mode":            "test-mode",
	"log.debug":                   "debug",
}

// Load loads configuration from an optional YAML file with .env, environment
// variable and flag overrides. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configFile == "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks struct constraints and the timezone name
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Output.Location(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("wconcept.best_page_url", "https://display.wconcept.co.kr/rn/best?displayCategoryType=ALL&displaySubCategoryType=ALL&gnbType=Y")
	v.SetDefault("wconcept.product_endpoint", "https://gw-front.wconcept.co.kr/display/api/best/v1/product")
	v.SetDefault("wconcept.origin", "https://display.wconcept.co.kr")
	v.SetDefault("wconcept.referer", "https://display.wconcept.co.kr/rn/best")
	v.SetDefault("wconcept.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("wconcept.api_key", "")
	v.SetDefault("wconcept.timeout", 30)
	v.SetDefault("wconcept.max_retries", 3)
	v.SetDefault("wconcept.retry_backoff", 2)
	v.SetDefault("wconcept.max_requests_per_second", 2)
	v.SetDefault("wconcept.proxies", []string{})
	v.SetDefault("wconcept.domain", "WOMEN")
	v.SetDefault("wconcept.gender_type", "all")
	v.SetDefault("wconcept.date_type", "daily")
	v.SetDefault("wconcept.age_group", "all")

	v.SetDefault("brands", []string{"HACIE", "하시에"})

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.file_prefix", "wconcept_best")
	v.SetDefault("output.timezone", "Asia/Seoul")

	v.SetDefault("export.page_size", 200)
	v.SetDefault("export.max_pages", 0)
	v.SetDefault("export.skip_category_update", false)
	v.SetDefault("export.test_mode", false)

	v.SetDefault("categories.cache_file", "data/best_categories.json")

	v.SetDefault("report.link_base_url", "https://github.com/kaae/best_item_crawl/blob/master/output")
	v.SetDefault("report.title", "HACIE")
	v.SetDefault("report.source", "W컨셉 베스트 페이지")

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.name", "bestcrawl")
	v.SetDefault("log.debug", false)
	v.SetDefault("log.console", true)
	v.SetDefault("log.critical_log", true)
	v.SetDefault("log.max_age_days", 30)
}
