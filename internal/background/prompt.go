package background

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kpauljoseph/deckforge/pkg/models"
)

// PromptBuilder renders the image prompt for a record from a text/template,
// e.g. "Art Nouveau-style drawing of '{{.Name}}'".
type PromptBuilder struct {
	tmpl *template.Template
}

func NewPromptBuilder(text string) (*PromptBuilder, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty prompt template", ErrNotConfigured)
	}
	tmpl, err := template.New("prompt").
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

func (p *PromptBuilder) Build(rec models.CardRecord) (string, error) {
	var b strings.Builder
	if err := p.tmpl.Execute(&b, rec); err != nil {
		return "", fmt.Errorf("failed to build prompt for %s: %w", rec, err)
	}
	return strings.TrimSpace(b.String()), nil
}
