package domain

import "context"

// Crawler devolve o texto (markdown) de uma página de contato alcançável a
// partir da URL semente. Texto vazio significa "nada encontrado".
type Crawler interface {
	FetchContactPageText(ctx context.Context, seedURL string) (string, error)
}

// Completer é uma chamada de completion única, tudo-ou-nada.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Composer renderiza o documento final.
type Composer interface {
	Compose(ctx context.Context, in DocumentInput) (ComposedDocument, error)
}
