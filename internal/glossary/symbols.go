// Package glossary holds the logic symbol table and the per-workspace
// variable definitions offered by the toolbox.
package glossary

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Symbol is one entry of the symbol table.
type Symbol struct {
	Category string `json:"category" yaml:"category"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Meaning  string `json:"meaning" yaml:"meaning"`
	Example  string `json:"example,omitempty" yaml:"example,omitempty"`
}

// ShortName is the name up to the first comma, as shown on symbol cards.
func (s Symbol) ShortName() string {
	name, _, _ := strings.Cut(s.Name, ",")
	return strings.TrimSpace(name)
}

// Categories are the main filter categories, in display order.
var Categories = []string{
	"Classical Logic",
	"Predicate Logic",
	"Set Theory",
	"Modal Logic",
	"Calculus",
	"Probability & Statistics",
}

// CategoryLabel is the short label of a category filter button.
func CategoryLabel(category string) string {
	label := strings.Replace(category, " & Statistics", "", 1)
	return strings.Replace(label, "Classical ", "", 1)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// CategoryClass is the CSS class of a category, e.g. "category-set-theory".
func CategoryClass(category string) string {
	if category == "" {
		return "category-default"
	}
	return "category-" + nonSlug.ReplaceAllString(strings.ToLower(category), "-")
}

// FilterSymbols returns the symbols of category. "all", an empty category,
// or a filter that matches nothing returns the full table.
func FilterSymbols(symbols []Symbol, category string) []Symbol {
	if category == "" || category == "all" {
		return symbols
	}
	var out []Symbol
	for _, s := range symbols {
		if s.Category == category {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return symbols
	}
	return out
}

// SymbolMarkup is the inline markup inserted for a symbol.
func SymbolMarkup(symbol string) string {
	return `<span class="highlight-symbol">` + html.EscapeString(symbol) + `</span>`
}

// VariableMarkup is the inline markup inserted for a defined variable.
func VariableMarkup(key string) string {
	return `<span class="highlight-variable">` + html.EscapeString(key) + `</span>`
}

// FallbackSymbols is the built-in table used when loading fails.
func FallbackSymbols() []Symbol {
	return []Symbol{
		{
			Category: "Classical Logic",
			Symbol:   "¬",
			Name:     "Negation, Not",
			Meaning:  "The logical opposite of a statement. If P is true, ¬P is false.",
			Example:  "It is not raining outside.",
		},
		{
			Category: "Classical Logic",
			Symbol:   "∧",
			Name:     "Conjunction, And",
			Meaning:  "True only if both connected statements are true.",
			Example:  "The sun is shining and the birds are singing.",
		},
		{
			Category: "Modal Logic",
			Symbol:   "◇",
			Name:     "Possibility, Possibly",
			Meaning:  "Asserts that a statement is possibly true in some accessible world.",
			Example:  "It is possible that it will rain tomorrow.",
		},
		{
			Category: "Set Theory",
			Symbol:   "∈",
			Name:     "Element of, In",
			Meaning:  "An object is a member of a set.",
			Example:  "Canada is an element of the set of North American countries.",
		},
	}
}

// LoadSymbols reads the symbol table from a file path or an http(s) URL.
// Any failure is logged and answered with FallbackSymbols.
func LoadSymbols(ctx context.Context, source string, log *slog.Logger) []Symbol {
	symbols, err := ReadSymbols(ctx, source)
	if err != nil {
		log.Warn("failed to load symbols, using fallback data", "source", source, "error", err)
		return FallbackSymbols()
	}
	return symbols
}

// ReadSymbols loads the symbol table, returning the error instead of
// falling back.
func ReadSymbols(ctx context.Context, source string) ([]Symbol, error) {
	if source == "" {
		return nil, fmt.Errorf("no symbol source configured")
	}
	var (
		data []byte
		ext  string
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source)
		ext = strings.ToLower(path.Ext(strings.SplitN(source, "?", 2)[0]))
	} else {
		data, err = os.ReadFile(source)
		ext = strings.ToLower(filepath.Ext(source))
	}
	if err != nil {
		return nil, err
	}
	return DecodeSymbols(data, ext)
}

// DecodeSymbols decodes a JSON array, or YAML when ext is .yaml/.yml.
func DecodeSymbols(data []byte, ext string) ([]Symbol, error) {
	var symbols []Symbol
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &symbols); err != nil {
			return nil, fmt.Errorf("decode symbols yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &symbols); err != nil {
			return nil, fmt.Errorf("decode symbols json: %w", err)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbol table is empty")
	}
	return symbols, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch symbols: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch symbols: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
