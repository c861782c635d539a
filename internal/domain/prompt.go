package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// MaxPromptLength is the prompt cap in characters.
	MaxPromptLength = 500

	// DefaultStyle is selected until the user picks another one.
	DefaultStyle = "no-style"

	surprisePrompt = "Minimalistic logo for a boutique hotel named Cosmos on the Aegean coast of Turkey, featuring ocean waves and terracotta accents."
)

// ErrUnknownStyle is returned for a style id outside the catalog.
var ErrUnknownStyle = errors.New("unknown style")

// Style is a selectable logo style tag.
type Style struct {
	ID    string
	Label string
}

var styles = []Style{
	{ID: "no-style", Label: "No Style"},
	{ID: "monogram", Label: "Monogram"},
	{ID: "abstract", Label: "Abstract"},
	{ID: "mascot", Label: "Mascot"},
}

// Styles returns the style catalog in display order.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// LookupStyle finds a style by id.
func LookupStyle(id string) (Style, bool) {
	for _, s := range styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

// TruncatePrompt safely truncates a string to the specified length while preserving UTF-8 characters
func TruncatePrompt(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}

	var size, n int
	for i := 0; i < length && n < len(s); i++ {
		_, size = utf8.DecodeRuneInString(s[n:])
		n += size
	}

	return s[:n]
}

// PromptCollector holds the prompt being typed and the selected style.
// The zero value is not ready; use NewPromptCollector.
type PromptCollector struct {
	text  string
	style string
}

// NewPromptCollector creates an empty collector with DefaultStyle selected.
func NewPromptCollector() *PromptCollector {
	return &PromptCollector{style: DefaultStyle}
}

// SetText stores s, dropping anything past MaxPromptLength characters.
func (p *PromptCollector) SetText(s string) {
	p.text = TruncatePrompt(s, MaxPromptLength)
}

// Text returns the stored prompt.
func (p *PromptCollector) Text() string {
	return p.text
}

// Len is the prompt length in characters.
func (p *PromptCollector) Len() int {
	return utf8.RuneCountInString(p.text)
}

// Counter renders the "n/500" hint.
func (p *PromptCollector) Counter() string {
	return fmt.Sprintf("%d/%d", p.Len(), MaxPromptLength)
}

// Surprise replaces the prompt with a canned example.
func (p *PromptCollector) Surprise() {
	p.SetText(surprisePrompt)
}

// SelectStyle picks a style from the catalog.
func (p *PromptCollector) SelectStyle(id string) error {
	if _, ok := LookupStyle(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, id)
	}
	p.style = id
	return nil
}

// Style returns the selected style id.
func (p *PromptCollector) Style() string {
	return p.style
}

// Request snapshots the collector into a request value.
func (p *PromptCollector) Request() GenerationRequest {
	return GenerationRequest{Prompt: p.text, StyleTag: p.style}
}
