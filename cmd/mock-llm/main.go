// Command mock-llm é um servidor de chat completion compatível com a API da
// OpenAI para rodar o resodo localmente sem chave: responde o prompt de
// contatos com os e-mails/telefones achados no texto e o prompt da carta com
// um texto fixo.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"resodo-gateway/middleware/ratelimit"
	"resodo-gateway/middleware/ratelimit/domain"
	"resodo-gateway/middleware/ratelimit/infra"
	"resodo-gateway/resolution/application"
	resdomain "resodo-gateway/resolution/domain"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

var companyRe = regexp.MustCompile(`COMPANY/INDIVIDUAL: (.*)`)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// o mock também usa o limiter, para exercitar 429 do lado do modelo
	store := infra.NewWindowStore(domain.Policy{Limit: 120, Window: time.Minute})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	store.StartJanitor(ctx)

	mux := http.NewServeMux()
	mux.Handle("POST /v1/chat/completions", completions(logger))

	h := http.Handler(mux)
	h = ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{Max: 50})(h)
	h = ratelimit.Middleware(ratelimit.Options{
		Store:               store,
		KeyHeader:           "Authorization",
		AddRateLimitHeaders: true,
	})(h)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("mock llm listening", "addr", addr, "base_url", "http://localhost"+addr+"/v1")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// completions fala o mesmo formato que o cliente go-openai envia e espera.
func completions(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(openai.ErrorResponse{Error: &openai.APIError{
				Type:    "invalid_request_error",
				Message: "messages must not be empty",
			}})
			return
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		reply := answer(prompt)
		logger.Info("completion", "model", req.Model, "prompt_chars", len(prompt), "reply_chars", len(reply))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:      "chatcmpl-" + uuid.NewString(),
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				FinishReason: openai.FinishReasonStop,
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: reply,
				},
			}},
			Usage: openai.Usage{
				PromptTokens:     len(prompt) / 4,
				CompletionTokens: len(reply) / 4,
				TotalTokens:      (len(prompt) + len(reply)) / 4,
			},
		})
	}
}

func answer(prompt string) string {
	if strings.Contains(prompt, "contact information extractor") {
		return contactsReply(prompt)
	}
	company := "the respondent"
	if m := companyRe.FindStringSubmatch(prompt); m != nil {
		company = strings.TrimSpace(m[1])
	}
	return letterReply(company)
}

func contactsReply(prompt string) string {
	var out []resdomain.ContactEntry
	for _, p := range application.PhonePattern.FindAllString(prompt, -1) {
		out = append(out, resdomain.ContactEntry{Kind: resdomain.KindPhone, Value: p})
	}
	for _, e := range application.EmailPattern.FindAllString(prompt, -1) {
		out = append(out, resdomain.ContactEntry{Kind: resdomain.KindEmail, Value: e})
	}
	if out == nil {
		return "I could not find any contact information."
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	return "Here is the extracted contact information:\n```json\n" + string(b) + "\n```"
}

func letterReply(company string) string {
	return fmt.Sprintf(`BACKGROUND
The filer purchased goods from %[1]s and the order was not fulfilled as agreed.

SPECIFIC COMPLAINTS
1. The goods were not delivered within the promised period.
2. Requests for a refund were ignored.

LEGAL BASIS
Applicable consumer protection statutes require timely delivery or a full refund.

DEMAND FOR RESOLUTION
%[1]s shall refund the full purchase price.

TIMELINE
A written response is required within fourteen (14) days of receipt of this letter.

CONSEQUENCES OF NON-COMPLIANCE
The filer will file a complaint with the competent consumer protection agency.`, company)
}
