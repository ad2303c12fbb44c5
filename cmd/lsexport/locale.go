package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cedricOL/LimeSurvey/pkg/cli"
	"github.com/cedricOL/LimeSurvey/pkg/i18n"
)

var localeCmd = &cobra.Command{
	Use:   "locale",
	Short: "Inspect translation bundles",
	Long: `Inspect the translation bundles used for localized headings and answer
texts.

Subcommands:
  list   - List available bundle languages with sample resolutions
  watch  - Watch the bundle directory and reload on change

Examples:
  # Show which languages resolve from the configured bundle directory
  lsexport locale list

  # Validate bundle edits live while translating
  lsexport locale watch`,
}

var localeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available bundle languages",
	Long: `List the languages with a bundle file in the configured directory,
with a sample resolution per language so gaps show up immediately.`,
	RunE: listLocales,
}

var localeWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the bundle directory and reload on change",
	Long: `Watch the bundle directory and drop the translation cache whenever a
bundle file changes. Parse failures are logged as they happen, which
makes this the fastest way to validate bundle edits while translating.`,
	RunE: watchLocales,
}

func init() {
	rootCmd.AddCommand(localeCmd)
	localeCmd.AddCommand(localeListCmd, localeWatchCmd)
}

func listLocales(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	if cfg.Locale.Dir == "" {
		fmt.Println("No bundle directory configured (locale.dir); built-in English strings only.")
	}

	translator := i18n.NewTranslator(cfg.Locale.Dir)
	for _, lang := range translator.Languages() {
		marker := ""
		if lang == i18n.DefaultLanguage {
			marker = " (default)"
		}
		fmt.Printf("%s%s: yes=%q no=%q submitdate=%q\n", lang, marker,
			translator.Resolve("answer.yes", lang),
			translator.Resolve("answer.no", lang),
			translator.Resolve("heading.submitdate", lang))
	}
	return nil
}

func watchLocales(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	if cfg.Locale.Dir == "" {
		return cli.NewConfigError("locale.dir", "a bundle directory is required for watching")
	}

	translator := i18n.NewTranslator(cfg.Locale.Dir)

	watcher, err := i18n.NewBundleWatcher(&i18n.BundleWatcherConfig{
		Path:             cfg.Locale.Dir,
		DebounceInterval: cfg.Locale.DebounceInterval,
		Extensions:       []string{".yaml", ".yml"},
		SkipHidden:       true,
	}, slog.Default())
	if err != nil {
		return cli.NewCommandError("locale", err)
	}

	fmt.Printf("✓ Watching %s (languages: %s)\n",
		cfg.Locale.Dir, strings.Join(translator.Languages(), ", "))
	fmt.Println("\nPress Ctrl+C to stop")

	ctx := cli.SetupSignalHandler()
	if err := watcher.Watch(ctx, func() error {
		translator.Invalidate()
		fmt.Printf("✓ Bundles reloaded (languages: %s)\n", strings.Join(translator.Languages(), ", "))
		return nil
	}); err != nil {
		return cli.NewCommandError("locale", err)
	}
	return nil
}
