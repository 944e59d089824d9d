package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/dgallion1/argus/internal/glossary"
)

var (
	symbolsCategory string
	symbolsPlain    bool
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Print the logic symbol glossary",
	Args:  cobra.NoArgs,
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().StringVar(&symbolsCategory, "category", "", "only show one category")
	symbolsCmd.Flags().String("source", "", "symbol table file or URL")
	symbolsCmd.Flags().BoolVar(&symbolsPlain, "plain", false, "print markdown without styling")
	_ = settings.BindPFlag("symbols", symbolsCmd.Flags().Lookup("source"))
}

func runSymbols(cmd *cobra.Command, args []string) error {
	symbols := glossary.LoadSymbols(cmd.Context(), settings.GetString("symbols"), log)
	symbols = glossary.FilterSymbols(symbols, symbolsCategory)

	md := symbolTable(symbols)
	if symbolsPlain {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(settings.GetInt("width")),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render glossary: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// symbolTable writes one markdown table per category, in the order the
// categories first appear.
func symbolTable(symbols []glossary.Symbol) string {
	var order []string
	byCategory := make(map[string][]glossary.Symbol)
	for _, s := range symbols {
		if _, ok := byCategory[s.Category]; !ok {
			order = append(order, s.Category)
		}
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}

	var b strings.Builder
	for i, cat := range order {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", cat)
		b.WriteString("| Symbol | Name | Meaning | Example |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, s := range byCategory[cat] {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cell(s.Symbol), cell(s.ShortName()), cell(s.Meaning), cell(s.Example))
		}
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
