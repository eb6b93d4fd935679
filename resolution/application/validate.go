package application

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"resodo-gateway/resolution/domain"
)

const (
	MaxFilerInfoItemChars = 1000
	MinLegalDocumentChars = 100

	minRespondentChars = 2
	maxRespondentChars = 200
	minFilerChars      = 2
	maxFilerChars      = 100
	minFilerInfoItems  = 1
	maxFilerInfoItems  = 20
	minResolutionChars = 10
	maxResolutionChars = 5000
)

var websitePattern = regexp.MustCompile(`^(https?://)?([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}(:[0-9]{1,5})?(/.*)?$`)

// Lista de bloqueio: texto que casa é rejeitado, nunca "limpo".
var suspiciousPatterns = compileAll(
	`<script.*?>`, `javascript:`, `vbscript:`, `onload=`,
	`onerror=`, `onclick=`, `eval\(`, `document\.`,
	`window\.`, `alert\(`, `prompt\(`, `confirm\(`,
	`<iframe.*?>`, `<object.*?>`, `<embed.*?>`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// ValidateWebsite normaliza a URL. Sem esquema, "https://" é prefixado e a
// URL é checada de novo; com esquema, precisa casar como veio.
func ValidateWebsite(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		if websitePattern.MatchString(url) {
			return url, nil
		}
		return "", domain.NewValidationError("website", "Invalid website URL format")
	}

	prefixed := "https://" + url
	if url != "" && websitePattern.MatchString(prefixed) {
		return prefixed, nil
	}
	return "", domain.NewValidationError("website", "Invalid website URL format")
}

// ValidateFilerInfo apara cada item, descarta vazios e exige pelo menos um.
func ValidateFilerInfo(items []string) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if utf8.RuneCountInString(item) > MaxFilerInfoItemChars {
			return nil, domain.NewValidationError("filer_info", "filer_info item too long (max 1000 chars)")
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, domain.NewValidationError("filer_info", "no valid filer_info provided")
	}
	return out, nil
}

func ValidateResolution(text string) (string, error) {
	for _, p := range suspiciousPatterns {
		if p.MatchString(text) {
			return "", domain.NewValidationError("resolution", "Resolution contains suspicious content")
		}
	}
	return strings.TrimSpace(text), nil
}

// ValidateLegalDocument barra saídas truncadas ou mensagens de erro do modelo
// antes que virem um documento.
func ValidateLegalDocument(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewInternalValidationError("legal_document", "Legal document generation failed")
	}
	if utf8.RuneCountInString(text) < MinLegalDocumentChars {
		return "", domain.NewInternalValidationError("legal_document", "Generated legal document is too short")
	}
	return text, nil
}

// ValidateRequest monta o ValidatedRequest a partir dos parâmetros crus.
// Primeiro os limites de tamanho do endpoint, depois os validadores por campo.
func ValidateRequest(raw domain.RawRequest) (domain.ValidatedRequest, error) {
	respondent := strings.TrimSpace(raw.Respondent)
	if err := checkLength("respondent", respondent, minRespondentChars, maxRespondentChars); err != nil {
		return domain.ValidatedRequest{}, err
	}
	filer := strings.TrimSpace(raw.Filer)
	if err := checkLength("filer", filer, minFilerChars, maxFilerChars); err != nil {
		return domain.ValidatedRequest{}, err
	}
	if n := len(raw.FilerInfo); n < minFilerInfoItems || n > maxFilerInfoItems {
		return domain.ValidatedRequest{}, domain.NewValidationError("filer_info",
			fmt.Sprintf("filer_info must have between %d and %d items", minFilerInfoItems, maxFilerInfoItems))
	}
	if err := checkLength("resolution", strings.TrimSpace(raw.Resolution), minResolutionChars, maxResolutionChars); err != nil {
		return domain.ValidatedRequest{}, err
	}

	website, err := ValidateWebsite(raw.Website)
	if err != nil {
		return domain.ValidatedRequest{}, err
	}
	filerInfo, err := ValidateFilerInfo(raw.FilerInfo)
	if err != nil {
		return domain.ValidatedRequest{}, err
	}
	resolution, err := ValidateResolution(raw.Resolution)
	if err != nil {
		return domain.ValidatedRequest{}, err
	}

	return domain.ValidatedRequest{
		Respondent: respondent,
		Website:    website,
		Filer:      filer,
		FilerInfo:  filerInfo,
		Resolution: resolution,
	}, nil
}

func checkLength(field, value string, lo, hi int) error {
	n := utf8.RuneCountInString(value)
	if n < lo || n > hi {
		return domain.NewValidationError(field, fmt.Sprintf("%s must be between %d and %d characters", field, lo, hi))
	}
	return nil
}
