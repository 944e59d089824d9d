package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/editor"
	"github.com/dgallion1/argus/internal/importer"
	"github.com/dgallion1/argus/internal/parser"
)

var (
	cfgFile  string
	verbose  bool
	settings = viper.New()
	log      = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "argmap",
	Short: "Parse argument outlines and draw them as argument maps",
	Long: `argmap reads an argument outline (text, markdown, HTML, PDF or DOCX)
and prints the arguments it contains or draws them as a map.

Configuration is read from $HOME/.argmap.yaml or --config, and every
setting can be overridden with an ARGMAP_ environment variable
(ARGMAP_WIDTH, ARGMAP_SYMBOLS, ARGMAP_PDF_FALLBACK).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.argmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	setDefaults(settings)

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(symbolsCmd)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("width", 80)
	v.SetDefault("symbols", "")
	v.SetDefault("pdf_fallback", true)
	v.SetDefault("debounce", "300ms")
}

func initConfig() error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings.SetEnvPrefix("ARGMAP")
	settings.AutomaticEnv()

	if cfgFile != "" {
		settings.SetConfigFile(cfgFile)
	} else {
		settings.SetConfigName(".argmap")
		settings.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			settings.AddConfigPath(home)
		}
	}

	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Debug("config loaded", "file", settings.ConfigFileUsed())
	}
	return nil
}

// loadFile imports a file from disk and extracts its arguments.
func loadFile(path string) (*editor.Document, []argument.Argument, int64, error) {
	if !importer.IsSupportedExtension(path) {
		return nil, nil, 0, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	imp, err := importer.ForFile(path)
	if err != nil {
		return nil, nil, 0, err
	}
	if p, ok := imp.(*importer.PDFImporter); ok {
		p.FallbackPdftotext = settings.GetBool("pdf_fallback")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}

	doc, err := imp.Import(f, filepath.Base(path))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("import %s: %w", path, err)
	}
	args := parser.Parse(doc)
	log.Debug("file parsed", "path", path, "bytes", info.Size(), "arguments", len(args))
	return doc, args, info.Size(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
