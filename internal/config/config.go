package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort string `yaml:"app_port"`

	// PostgresDSN 为空时不启用归档与定时采集
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisAddr   string `yaml:"redis_addr"`

	CronSpec string `yaml:"cron_spec"`

	// Variant: feeds / briefing
	Variant  string `yaml:"variant"`
	Parallel bool   `yaml:"parallel"`
	AssetDir string `yaml:"asset_dir"`

	UserAgent string   `yaml:"user_agent"`
	Keywords  []string `yaml:"keywords"`

	NewsAPIURL string `yaml:"news_api_url"`
	NewsAPIKey string `yaml:"news_api_key"`

	RedditSearchURL string `yaml:"reddit_search_url"`

	ScrapeURL       string `yaml:"scrape_url"`
	ScrapeBaseURL   string `yaml:"scrape_base_url"`
	ScrapeLinkClass string `yaml:"scrape_link_class"`
}

func defaults() *Config {
	return &Config{
		AppPort:         "9000",
		RedisAddr:       "localhost:6380",
		CronSpec:        "*/30 * * * *",
		Variant:         "feeds",
		AssetDir:        ".",
		UserAgent:       "OpsBoardBot/1.0",
		Keywords:        []string{"AI governance", "AI policy", "AI regulation"},
		NewsAPIURL:      "https://newsapi.org/v2/everything",
		RedditSearchURL: "https://www.reddit.com/search.json",
		ScrapeURL:       "https://www.brookings.edu/topic/artificial-intelligence/",
		ScrapeBaseURL:   "https://www.brookings.edu",
		ScrapeLinkClass: "overlay-link",
	}
}

// Load 依次应用默认值、CONFIG_FILE 指定的 YAML 文件、环境变量
func Load() *Config {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			log.Printf("warn: load config file %s: %v", path, err)
		}
	}
	applyEnv(cfg)

	log.Printf("config loaded: port=%s variant=%s parallel=%v archive=%v", cfg.AppPort, cfg.Variant, cfg.Parallel, cfg.ArchiveEnabled())
	return cfg
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.AppPort = getEnv("APP_PORT", cfg.AppPort)
	cfg.PostgresDSN = getEnv("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.CronSpec = getEnv("CRON_SPEC", cfg.CronSpec)
	cfg.Variant = getEnv("DASHBOARD_VARIANT", cfg.Variant)
	cfg.Parallel = getEnvBool("FETCH_PARALLEL", cfg.Parallel)
	cfg.AssetDir = getEnv("ASSET_DIR", cfg.AssetDir)
	cfg.UserAgent = getEnv("USER_AGENT", cfg.UserAgent)
	cfg.Keywords = getEnvList("FEED_KEYWORDS", cfg.Keywords)
	cfg.NewsAPIURL = getEnv("NEWS_API_URL", cfg.NewsAPIURL)
	cfg.NewsAPIKey = getEnv("NEWS_API_KEY", cfg.NewsAPIKey)
	cfg.RedditSearchURL = getEnv("REDDIT_SEARCH_URL", cfg.RedditSearchURL)
	cfg.ScrapeURL = getEnv("SCRAPE_URL", cfg.ScrapeURL)
	cfg.ScrapeBaseURL = getEnv("SCRAPE_BASE_URL", cfg.ScrapeBaseURL)
	cfg.ScrapeLinkClass = getEnv("SCRAPE_LINK_CLASS", cfg.ScrapeLinkClass)
}

// ArchiveEnabled 是否配置了数据库
func (c *Config) ArchiveEnabled() bool {
	return c.PostgresDSN != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warn: invalid bool %s=%q, using %v", key, v, def)
		return def
	}
	return b
}

// getEnvList 逗号分隔，忽略空项
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Now returns current time, 方便后续做可测试封装
func Now() time.Time {
	return time.Now()
}
