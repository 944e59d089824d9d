package glossary

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const symbolsJSON = `[
  {"category": "Classical Logic", "symbol": "→", "name": "Implication, If...then", "meaning": "If P then Q."},
  {"category": "Set Theory", "symbol": "∪", "name": "Union", "meaning": "Members of either set."}
]`

const symbolsYAML = `- category: Modal Logic
  symbol: "□"
  name: Necessity, Necessarily
  meaning: True in every accessible world.
`

func TestReadSymbols_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.json")
	require.NoError(t, os.WriteFile(path, []byte(symbolsJSON), 0o644))

	symbols, err := ReadSymbols(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "→", symbols[0].Symbol)
	assert.Equal(t, "Implication", symbols[0].ShortName())
}

func TestReadSymbols_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte(symbolsYAML), 0o644))

	symbols, err := ReadSymbols(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Modal Logic", symbols[0].Category)
	assert.Equal(t, "□", symbols[0].Symbol)
}

func TestReadSymbols_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(symbolsJSON))
	}))
	defer srv.Close()

	symbols, err := ReadSymbols(context.Background(), srv.URL+"/symbols.json")
	require.NoError(t, err)
	assert.Len(t, symbols, 2)
}

func TestLoadSymbols_FallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	sources := []string{
		"",
		filepath.Join(t.TempDir(), "missing.json"),
		srv.URL + "/symbols.json",
	}
	for _, src := range sources {
		symbols := LoadSymbols(context.Background(), src, discardLogger())
		assert.Equal(t, FallbackSymbols(), symbols, "source %q", src)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Len(t, LoadSymbols(context.Background(), bad, discardLogger()), 4)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	assert.Len(t, LoadSymbols(context.Background(), empty, discardLogger()), 4)
}

func TestFilterSymbols(t *testing.T) {
	all := FallbackSymbols()
	assert.Equal(t, all, FilterSymbols(all, "all"))
	assert.Equal(t, all, FilterSymbols(all, ""))

	classical := FilterSymbols(all, "Classical Logic")
	require.Len(t, classical, 2)
	assert.Equal(t, "¬", classical[0].Symbol)

	// Nothing in Calculus: the full table is shown instead of nothing.
	assert.Equal(t, all, FilterSymbols(all, "Calculus"))
}

func TestCategoryHelpers(t *testing.T) {
	assert.Equal(t, "category-classical-logic", CategoryClass("Classical Logic"))
	assert.Equal(t, "category-probability-statistics", CategoryClass("Probability & Statistics"))
	assert.Equal(t, "category-default", CategoryClass(""))

	assert.Equal(t, "Logic", CategoryLabel("Classical Logic"))
	assert.Equal(t, "Probability", CategoryLabel("Probability & Statistics"))
	assert.Equal(t, "Set Theory", CategoryLabel("Set Theory"))
	assert.Len(t, Categories, 6)
}

func TestMarkup(t *testing.T) {
	assert.Equal(t, `<span class="highlight-symbol">∀</span>`, SymbolMarkup("∀"))
	assert.Equal(t, `<span class="highlight-variable">a&lt;b</span>`, VariableMarkup("a<b"))
}
