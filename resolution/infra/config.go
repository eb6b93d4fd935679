package infra

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// PipelineConfig é a parte "de domínio" da configuração: crawler, modelo,
// janela de contexto e saída de PDF. Variáveis de ambiente sobrescrevem o
// arquivo (ver cmd/resodo).
type PipelineConfig struct {
	Crawl        CrawlConfig    `yaml:"crawl"`
	LLM          LLMConfig      `yaml:"llm"`
	ContextChars int            `yaml:"context_chars"`
	OutputDir    string         `yaml:"output_dir"`
	Sanitize     SanitizeConfig `yaml:"sanitize"`
}

type LLMConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type SanitizeConfig struct {
	Replacement string   `yaml:"replacement"`
	Variants    []string `yaml:"variants"`
	// IncludeHyphen também troca o "-" ASCII, como a versão antiga fazia.
	IncludeHyphen bool `yaml:"include_hyphen"`
}

func (c SanitizeConfig) Sanitizer() *Sanitizer {
	variants := c.Variants
	if len(variants) == 0 {
		variants = DashVariants
	}
	if c.IncludeHyphen {
		variants = append([]string{"-"}, variants...)
	}
	replacement := c.Replacement
	if replacement == "" {
		replacement = EnDash
	}
	return NewSanitizer(variants, replacement)
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Crawl: DefaultCrawlConfig(),
		LLM: LLMConfig{
			BaseURL: "https://api.deepseek.com",
			Model:   "deepseek-chat",
			Timeout: 90 * time.Second,
		},
		ContextChars: 1000,
		OutputDir:    os.TempDir(),
	}
}

// LoadPipelineConfig parte dos defaults e aplica o YAML por cima. Caminho
// vazio devolve só os defaults.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

func (c PipelineConfig) Validate() error {
	switch {
	case c.ContextChars <= 0:
		return eris.New("context_chars must be > 0")
	case c.Crawl.MaxPages <= 0:
		return eris.New("crawl.max_pages must be > 0")
	case c.Crawl.MaxDepth < 0:
		return eris.New("crawl.max_depth must be >= 0")
	case c.Crawl.Delay < 0:
		return eris.New("crawl.delay must be >= 0")
	case c.LLM.Model == "":
		return eris.New("llm.model must not be empty")
	}
	return nil
}
