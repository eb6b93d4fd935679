package infra

import "strings"

// EnDash é o traço que sobrevive à sanitização.
const EnDash = "–"

// DashVariants são os traços que a fonte do PDF não renderiza de forma
// consistente. O hífen ASCII fica de fora: trocar "-" quebraria telefones,
// e-mails e datas.
var DashVariants = []string{
	"‐", // hyphen
	"‑", // non-breaking hyphen
	"‒", // figure dash
	"—", // em dash
	"―", // horizontal bar
	"−", // minus sign
	"﹘", // small em dash
	"﹣", // small hyphen-minus
	"－", // fullwidth hyphen-minus
}

// Sanitizer troca cada variante pelo substituto. Montado uma vez, seguro
// para uso concorrente.
type Sanitizer struct {
	r *strings.Replacer
}

func NewSanitizer(variants []string, replacement string) *Sanitizer {
	pairs := make([]string, 0, 2*len(variants))
	for _, v := range variants {
		if v == "" || v == replacement {
			continue
		}
		pairs = append(pairs, v, replacement)
	}
	return &Sanitizer{r: strings.NewReplacer(pairs...)}
}

// DefaultSanitizer: DashVariants -> EnDash.
func DefaultSanitizer() *Sanitizer {
	return NewSanitizer(DashVariants, EnDash)
}

func (s *Sanitizer) Clean(text string) string {
	if s == nil || s.r == nil {
		return text
	}
	return s.r.Replace(text)
}
