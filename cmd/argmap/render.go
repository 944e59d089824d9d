package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/render"
)

var renderHTML bool

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Draw the argument map of an outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "print the map as HTML")
	renderCmd.Flags().Int("width", 80, "terminal width of the map")
	_ = settings.BindPFlag("width", renderCmd.Flags().Lookup("width"))
}

func runRender(cmd *cobra.Command, args []string) error {
	_, parsed, size, err := loadFile(args[0])
	if err != nil {
		return err
	}
	nodes := render.Build(parsed)

	if renderHTML {
		out, err := render.HTML(nodes)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), render.Terminal(nodes, settings.GetInt("width")))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), summary(argument.Summarize(parsed), size))
	return nil
}

// summary is the one-line footer printed under a rendered map.
func summary(s argument.Stats, size int64) string {
	return fmt.Sprintf("%s %s, %s %s, %s objections, from %s",
		humanize.Comma(int64(s.Arguments)), plural(s.Arguments, "argument"),
		humanize.Comma(int64(s.Lines)), plural(s.Lines, "line"),
		humanize.Comma(int64(s.Objections)),
		humanize.Bytes(uint64(size)))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
