package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/render"
)

var (
	parseJSON  bool
	parseDebug bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the arguments found in an outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print arguments as JSON")
	parseCmd.Flags().BoolVar(&parseDebug, "debug", false, "dump the parsed arguments")
}

func runParse(cmd *cobra.Command, args []string) error {
	_, parsed, _, err := loadFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case parseDebug:
		_, err = pp.Fprintln(out, parsed)
		return err
	case parseJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	default:
		return writeArguments(out, parsed)
	}
}

// writeArguments prints one block per argument: the title, then each line
// indented by its level and tagged with its type.
func writeArguments(w io.Writer, args []argument.Argument) error {
	for i, a := range args {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, a.Title); err != nil {
			return err
		}
		for _, l := range a.Lines {
			indent := strings.Repeat("  ", l.IndentLevel+1)
			if _, err := fmt.Fprintf(w, "%s[%s] %s\n", indent, l.Type, render.PlainText(l.Content)); err != nil {
				return err
			}
		}
	}
	return nil
}
