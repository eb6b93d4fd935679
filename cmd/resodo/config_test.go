package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("DEEPSEEK_KEY", "")

	cfg, err := readConfig("")
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.listenAddr != ":8000" {
		t.Fatalf("listenAddr = %q", cfg.listenAddr)
	}
	if !cfg.rateEnabled || cfg.rateLimit != 10 || cfg.rateWindow != time.Minute {
		t.Fatalf("rate defaults = %v/%d/%s", cfg.rateEnabled, cfg.rateLimit, cfg.rateWindow)
	}
	if cfg.pipeline.ContextChars != 1000 {
		t.Fatalf("context chars = %d", cfg.pipeline.ContextChars)
	}
	if cfg.pipeline.LLM.Model != "deepseek-chat" {
		t.Fatalf("model = %q", cfg.pipeline.LLM.Model)
	}
}

func TestReadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resodo.yaml")
	if err := os.WriteFile(path, []byte("context_chars: 300\nllm:\n  model: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LLM_MODEL", "from-env")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("DEEPSEEK_KEY", "sk-deepseek")
	t.Setenv("CRAWL_KEYWORDS", "contact, support ,")
	t.Setenv("RATE_LIMIT", "3")

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.pipeline.ContextChars != 300 {
		t.Fatalf("context chars = %d, want 300 from file", cfg.pipeline.ContextChars)
	}
	if cfg.pipeline.LLM.Model != "from-env" {
		t.Fatalf("model = %q, want env to win", cfg.pipeline.LLM.Model)
	}
	if cfg.pipeline.LLM.APIKey != "sk-deepseek" {
		t.Fatalf("api key fallback to DEEPSEEK_KEY not applied")
	}
	if got := cfg.pipeline.Crawl.Keywords; len(got) != 2 || got[0] != "contact" || got[1] != "support" {
		t.Fatalf("keywords = %v", got)
	}
	if cfg.rateLimit != 3 {
		t.Fatalf("rateLimit = %d", cfg.rateLimit)
	}
}

func TestReadConfigValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"stats without redis":  {"RATE_STATS_ENABLED": "true", "RATE_REDIS_ADDR": ""},
		"zero limit":           {"RATE_LIMIT": "0"},
		"negative window":      {"RATE_WINDOW": "-1s"},
		"negative concurrency": {"CONCURRENCY_MAX": "-1"},
		"zero context":         {"CONTEXT_CHARS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := readConfig(""); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
