package infra

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultContactKeywords decidem quais links da página semente são seguidos.
var DefaultContactKeywords = []string{"contact", "get-in-touch", "/en-us/contact", "/contact-us", "/contactus"}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120 Safari/537.36"

type CrawlConfig struct {
	Keywords      []string      `yaml:"keywords"`
	MaxDepth      int           `yaml:"max_depth"`
	MaxPages      int           `yaml:"max_pages"`
	Delay         time.Duration `yaml:"delay"`
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	RespectRobots bool          `yaml:"respect_robots"`
}

func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		Keywords:      DefaultContactKeywords,
		MaxDepth:      1,
		MaxPages:      2,
		Delay:         time.Second,
		UserAgent:     defaultUserAgent,
		Timeout:       20 * time.Second,
		RespectRobots: true,
	}
}

// ContactCrawler visita a URL semente e, com profundidade 1, os links do
// mesmo host que parecem página de contato. Devolve o markdown da última
// página buscada com sucesso (a de contato, quando existe).
type ContactCrawler struct {
	cfg       CrawlConfig
	converter *md.Converter
	logger    *slog.Logger
}

func NewContactCrawler(cfg CrawlConfig, logger *slog.Logger) *ContactCrawler {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultContactKeywords
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 2
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactCrawler{
		cfg:       cfg,
		converter: md.NewConverter("", true, nil),
		logger:    logger,
	}
}

type crawledPage struct {
	url      string
	markdown string
}

// FetchContactPageText implementa domain.Crawler.
func (c *ContactCrawler) FetchContactPageText(ctx context.Context, seedURL string) (string, error) {
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Host == "" {
		return "", eris.Errorf("crawl: invalid seed url %q", seedURL)
	}

	var (
		pages      []crawledPage
		candidates = map[string]int{}
		onSeed     = true
		limiter    = c.newLimiter()
	)

	col := colly.NewCollector(colly.UserAgent(c.cfg.UserAgent), colly.StdlibContext(ctx))
	col.IgnoreRobotsTxt = !c.cfg.RespectRobots
	if c.cfg.Timeout > 0 {
		col.SetRequestTimeout(c.cfg.Timeout)
	}

	col.OnRequest(func(r *colly.Request) {
		if err := limiter.Wait(ctx); err != nil {
			r.Abort()
		}
	})

	col.OnResponse(func(r *colly.Response) {
		ct := strings.ToLower(r.Headers.Get("Content-Type"))
		if ct != "" && !strings.Contains(ct, "text/html") {
			c.logger.Debug("skipping non-html page", "url", r.Request.URL.String(), "content_type", ct)
			return
		}
		text, err := c.toMarkdown(r.Body)
		if err != nil {
			c.logger.Warn("html to markdown failed", "url", r.Request.URL.String(), "err", err)
			return
		}
		pages = append(pages, crawledPage{url: r.Request.URL.String(), markdown: text})
	})

	col.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if !onSeed {
			return
		}
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" {
			return
		}
		u, err := url.Parse(link)
		if err != nil || !sameHost(u, seed) {
			return
		}
		u.Fragment = ""
		if score := c.score(u); score > 0 {
			key := u.String()
			if score > candidates[key] {
				candidates[key] = score
			}
		}
	})

	col.OnError(func(r *colly.Response, err error) {
		c.logger.Info("crawl request failed", "url", r.Request.URL.String(), "status", r.StatusCode, "err", err)
	})

	if err := col.Visit(seed.String()); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", eris.Wrap(ctxErr, "crawl: visit seed")
		}
		return "", eris.Wrap(err, "crawl: visit seed")
	}
	onSeed = false

	if c.cfg.MaxDepth >= 1 {
		// o seed já gastou uma página; links que falham também contam
		for i, link := range rankCandidates(candidates, seed.String()) {
			if i >= c.cfg.MaxPages-1 || ctx.Err() != nil {
				break
			}
			if err := col.Visit(link); err != nil {
				c.logger.Debug("contact link skipped", "url", link, "err", err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "crawl")
	}
	if len(pages) == 0 {
		return "", eris.Wrapf(errNoPages, "crawl: %s", seed.String())
	}
	last := pages[len(pages)-1]
	c.logger.Debug("crawl finished", "seed", seed.String(), "pages", len(pages), "url", last.url)
	return last.markdown, nil
}

var errNoPages = eris.New("no html page fetched")

func (c *ContactCrawler) newLimiter() *rate.Limiter {
	if c.cfg.Delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(c.cfg.Delay), 1)
}

// score conta quantas palavras-chave aparecem no caminho do link.
func (c *ContactCrawler) score(u *url.URL) int {
	target := strings.ToLower(u.Path + "?" + u.RawQuery)
	n := 0
	for _, kw := range c.cfg.Keywords {
		if kw != "" && strings.Contains(target, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}

func (c *ContactCrawler) toMarkdown(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, svg, iframe").Remove()
	return strings.TrimSpace(c.converter.Convert(doc.Selection)), nil
}

func sameHost(u, seed *url.URL) bool {
	return strings.EqualFold(strings.TrimPrefix(u.Hostname(), "www."), strings.TrimPrefix(seed.Hostname(), "www.")) &&
		u.Port() == seed.Port()
}

// rankCandidates ordena por score (desc) e depois por URL, sem a semente.
func rankCandidates(candidates map[string]int, seed string) []string {
	out := make([]string, 0, len(candidates))
	for link := range candidates {
		if link != seed {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if candidates[out[i]] != candidates[out[j]] {
			return candidates[out[i]] > candidates[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
