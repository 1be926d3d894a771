// Package main provides the magicsh CLI entry point.
// magicsh is an interactive shell for running magics: documented commands
// invoked with a single line whose arguments are parsed from the command's signature.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"magicshell/internal/commands"
	"magicshell/internal/config"
	"magicshell/internal/logger"
	"magicshell/internal/output"
	"magicshell/internal/shell"
	"magicshell/internal/state"
	"magicshell/internal/version"
)

// ScriptExtension is the required extension of batch scripts.
const ScriptExtension = ".magic"

var (
	configFile string
	cfg        *config.Config
	loader     = config.NewLoader()
)

var rootCmd = &cobra.Command{
	Use:   "magicsh",
	Short: "magicsh - a shell for magics",
	Long: `magicsh runs magics: commands written as documented functions and invoked
with a single line, e.g. "%search results -- --limit 10 query".`,
	PersistentPreRunE: initConfig,
	RunE:              runShell,
	SilenceUsage:      true,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	RunE:  runShell,
}

var batchCmd = &cobra.Command{
	Use:   "batch <script" + ScriptExtension + ">",
	Short: "Execute a script file in batch mode",
	Long: `Execute a script file without entering interactive mode.
Execution stops at the first failing line.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var magicsCmd = &cobra.Command{
	Use:   "magics",
	Short: "List the available magics",
	RunE:  runMagics,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Println(version.GetDetailedVersion())
			return
		}
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file [default: $XDG_CONFIG_HOME/magicsh/config.yaml]")
	flags.String(config.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(config.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.Bool(config.KeyTestMode, false, "Run in deterministic test mode")
	flags.String(config.KeyStyle, "", "Output style (auto|dark|light|plain)")
	flags.String(config.KeyCellTerminator, "", "Line that ends a cell body")
	flags.StringP(config.KeyOutput, "o", "", "Output format (text|json) [default: text]")
	flags.BoolP(config.KeyQuiet, "q", false, "Suppress magic output; errors still set the exit status")

	if err := loader.BindFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flags: %v\n", err)
		os.Exit(1)
	}

	versionCmd.Flags().BoolP("verbose", "v", false, "Show detailed build information")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(magicsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig(_ *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err = loader.Load(wd, configFile)
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	output.SetGlobalPrinter(newPrinter(cfg))
	return nil
}

func newPrinter(cfg *config.Config) *output.Printer {
	var opts []output.Option
	switch {
	case cfg.Output == "json":
		opts = append(opts, output.JSON())
	case cfg.TestMode:
		opts = append(opts, output.TestMode())
	case cfg.Style == "plain" || !output.SupportsColor():
		opts = append(opts, output.PlainText())
	default:
		output.DetectProfile()
		opts = append(opts, output.WithStyles(output.NewThemeStyles(cfg.Style)), output.WithMode(output.ModeStyled))
	}
	if cfg.Quiet {
		opts = append(opts, output.Silent())
	}
	return output.NewPrinter(opts...)
}

func newHandler() (*shell.Handler, error) {
	h, err := shell.NewHandler(shell.Options{
		Printer:        output.GetGlobalPrinter(),
		CellTerminator: cfg.CellTerminator,
		State:          state.Get(false),
		Settings: map[string]any{
			"prompt":       cfg.Prompt,
			"history_file": cfg.HistoryFile,
			"style":        cfg.Style,
			"test_mode":    cfg.TestMode,
		},
	})
	if err != nil {
		return nil, err
	}
	state.SetHost(h.Environment())
	return h, nil
}

func runShell(_ *cobra.Command, _ []string) error {
	logger.Info("Starting magicsh", "version", version.Version)

	h, err := newHandler()
	if err != nil {
		return err
	}

	printer := output.GetGlobalPrinter()
	printer.Info(version.GetFormattedVersion())
	printer.Comment("Type %magics to list magics, ?name for help, 'exit' to quit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return h.Interactive(ctx, cfg.Prompt, cfg.HistoryFile)
}

func runBatch(_ *cobra.Command, args []string) error {
	scriptPath := args[0]
	logger.Info("Starting magicsh batch mode", "version", version.Version, "script", scriptPath)

	if err := validateScriptFile(scriptPath); err != nil {
		return fmt.Errorf("script validation failed: %w", err)
	}

	h, err := newHandler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := h.RunScript(ctx, scriptPath); err != nil {
		return err
	}

	logger.Info("Script executed successfully", "script", scriptPath)
	return nil
}

func runMagics(_ *cobra.Command, _ []string) error {
	h, err := newHandler()
	if err != nil {
		return err
	}
	output.GetGlobalPrinter().Value(commands.InfoTable(h.Registry().List()))
	return nil
}

func validateScriptFile(scriptPath string) error {
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return fmt.Errorf("script file does not exist: %s", scriptPath)
	}
	if ext := filepath.Ext(scriptPath); ext != ScriptExtension {
		return fmt.Errorf("script file must have %s extension, got: %s", ScriptExtension, ext)
	}
	return nil
}
