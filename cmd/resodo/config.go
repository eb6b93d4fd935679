package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"resodo-gateway/resolution/infra"
)

type config struct {
	listenAddr   string
	writeTimeout time.Duration

	rateEnabled   bool
	rateLimit     int
	rateWindow    time.Duration
	rateKeyHeader string
	trustXFF      bool
	retryAfter    time.Duration
	addHeaders    bool

	// vazio = janela em memória
	rateRedisAddr     string
	rateRedisPassword string
	rateRedisDB       int

	concurrencyMax     int
	concurrencyTimeout time.Duration

	rateStatsEnabled   bool
	rateStatsPrefix    string
	rateStatsTTL       time.Duration
	rateStatsBucket    string
	rateStatsTrackKeys bool

	pipeline infra.PipelineConfig
}

// readConfig carrega o YAML (se houver) e aplica as variáveis de ambiente
// por cima.
func readConfig(configPath string) (config, error) {
	p, err := infra.LoadPipelineConfig(configPath)
	if err != nil {
		return config{}, err
	}

	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8000")
	// crawl + duas chamadas ao modelo cabem com folga
	cfg.writeTimeout = getenvDurationDefault("HTTP_WRITE_TIMEOUT", 5*time.Minute)

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rateLimit = getenvIntDefault("RATE_LIMIT", 10)
	cfg.rateWindow = getenvDurationDefault("RATE_WINDOW", time.Minute)
	cfg.rateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)

	cfg.rateRedisAddr = getenvDefault("RATE_REDIS_ADDR", "")
	cfg.rateRedisPassword = os.Getenv("RATE_REDIS_PASSWORD")
	cfg.rateRedisDB = getenvIntDefault("RATE_REDIS_DB", 0)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 8)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "resodo:ratelimit:stats")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	p.LLM.BaseURL = getenvDefault("LLM_BASE_URL", p.LLM.BaseURL)
	p.LLM.APIKey = getenvDefault("LLM_API_KEY", getenvDefault("DEEPSEEK_KEY", p.LLM.APIKey))
	p.LLM.Model = getenvDefault("LLM_MODEL", p.LLM.Model)
	p.LLM.Timeout = getenvDurationDefault("LLM_TIMEOUT", p.LLM.Timeout)
	p.ContextChars = getenvIntDefault("CONTEXT_CHARS", p.ContextChars)
	p.OutputDir = getenvDefault("OUTPUT_DIR", p.OutputDir)
	p.Crawl.MaxPages = getenvIntDefault("CRAWL_MAX_PAGES", p.Crawl.MaxPages)
	p.Crawl.MaxDepth = getenvIntDefault("CRAWL_MAX_DEPTH", p.Crawl.MaxDepth)
	p.Crawl.Delay = getenvDurationDefault("CRAWL_DELAY", p.Crawl.Delay)
	p.Crawl.Timeout = getenvDurationDefault("CRAWL_TIMEOUT", p.Crawl.Timeout)
	p.Crawl.UserAgent = getenvDefault("CRAWL_USER_AGENT", p.Crawl.UserAgent)
	p.Crawl.RespectRobots = getenvBoolDefault("CRAWL_RESPECT_ROBOTS", p.Crawl.RespectRobots)
	if kw := os.Getenv("CRAWL_KEYWORDS"); kw != "" {
		p.Crawl.Keywords = splitList(kw)
	}
	cfg.pipeline = p

	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateRedisAddr) == "" {
		return config{}, errors.New("RATE_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if cfg.rateLimit <= 0 {
		return config{}, errors.New("RATE_LIMIT must be > 0")
	}
	if cfg.rateWindow <= 0 {
		return config{}, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if err := p.Validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
