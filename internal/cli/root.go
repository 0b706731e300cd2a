package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/javameta/internal/runner"
)

var (
	cfgFile string
	logFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it behaves like "javameta run".
var rootCmd = &cobra.Command{
	Use:   "javameta",
	Short: "Extract declaration metadata from Java source files",
	Long: `javameta reads a JSON configuration listing Java source files, parses each
file and reports the classes, methods, fields, constructors and nested types
it declares together with their visibility.

Every descriptor is printed to the console and the collected records are
written to output.json (or the configured sinks).

Examples:
  # Process the files listed in src/JSON/filePath.json
  javameta

  # Use another configuration and write YAML
  javameta --config files.json --output meta.yaml --format yaml

  # Print the descriptors of single files
  javameta inspect src/main/java/Main.java
`,
	Args:          cobra.NoArgs,
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// The process exit status reflects the category of the failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(runner.Classify(err).ExitCode())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "input configuration file (default is src/JSON/filePath.json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write diagnostics to this file (rotated)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")

	addRunFlags(rootCmd)
}

// initConfig loads a .env file from the working directory, if present, so its
// JAVAMETA_* variables take part in settings resolution.
func initConfig() {
	_ = godotenv.Load()
}

// signalContext returns a context canceled on Ctrl+C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling run...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
