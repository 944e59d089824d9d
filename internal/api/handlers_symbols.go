package api

import (
	"net/http"

	"github.com/dgallion1/argus/internal/glossary"
)

type symbolView struct {
	glossary.Symbol
	ShortName string `json:"short_name"`
	Class     string `json:"class"`
	Markup    string `json:"markup"`
}

// handleSymbols serves the symbol table, optionally filtered by ?category=.
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	filtered := glossary.FilterSymbols(s.symbols, category)

	views := make([]symbolView, 0, len(filtered))
	for _, sym := range filtered {
		views = append(views, symbolView{
			Symbol:    sym,
			ShortName: sym.ShortName(),
			Class:     glossary.CategoryClass(sym.Category),
			Markup:    glossary.SymbolMarkup(sym.Symbol),
		})
	}

	categories := make([]map[string]string, 0, len(glossary.Categories))
	for _, c := range glossary.Categories {
		categories = append(categories, map[string]string{
			"category": c,
			"label":    glossary.CategoryLabel(c),
			"class":    glossary.CategoryClass(c),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"symbols":    views,
	})
}
