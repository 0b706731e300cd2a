package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/javameta/internal/config"
	"github.com/mvp-joe/javameta/internal/output"
	"github.com/mvp-joe/javameta/internal/parsers"
	"github.com/mvp-joe/javameta/internal/runner"
	"github.com/mvp-joe/javameta/internal/watcher"
)

// settingFlags maps command-line flags to settings keys.
var settingFlags = map[string]string{
	"config":            "config",
	"output":            "output.path",
	"format":            "output.format",
	"sqlite":            "output.sqlite",
	"continue-on-error": "continue_on_error",
	"log-file":          "log_file",
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the files listed in the input configuration",
	Long: `Run reads the input configuration, parses every listed Java file in order and
prints one line per declaration:

  public     Class                Foo
  public     Method               bar()
  private    Variable             x

The records are then written to the output file. By default the first file
that cannot be read or parsed aborts the run and nothing is written; with
--continue-on-error failing files are left out and the exit status is non-zero.

Settings can also come from JAVAMETA_* environment variables (or a .env file),
e.g. JAVAMETA_OUTPUT_FORMAT=yaml. Flags take precedence.

Examples:
  # Process src/JSON/filePath.json and write output.json
  javameta run

  # Also store the run in SQLite and show a summary table
  javameta run --sqlite javameta.db --summary

  # Re-run whenever the configuration or a listed file changes
  javameta run --watch
`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "output record file (default is output.json)")
	f.String("format", "", "output record format: json or yaml (default is json)")
	f.String("sqlite", "", "also store the run in this SQLite database")
	f.Bool("continue-on-error", false, "skip files that cannot be read or parsed instead of aborting")
	f.Bool("progress", false, "show a progress bar on stderr")
	f.Bool("summary", false, "print a per-file summary table on stderr")
	f.BoolP("watch", "w", false, "re-run whenever the configuration or a listed file changes")
}

// runOptions holds presentation choices that are not persisted settings.
type runOptions struct {
	progress bool
	summary  bool
	stdout   io.Writer
	stderr   io.Writer
}

func runRun(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	closer := setupLogging(cmd.ErrOrStderr(), settings.LogFile, verbose)
	defer closer.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	opts := runOptions{stdout: cmd.OutOrStdout(), stderr: cmd.ErrOrStderr()}
	opts.progress, _ = cmd.Flags().GetBool("progress")
	opts.summary, _ = cmd.Flags().GetBool("summary")

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchAndRerun(ctx, settings, opts)
	}

	_, err = executeRun(ctx, settings, opts)
	return err
}

// loadSettings resolves settings from the command's flags, the environment and defaults.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := viper.New()
	for flag, key := range settingFlags {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}
	return config.LoadSettings(v)
}

// executeRun performs one complete run: load the input configuration, process
// every file and write the configured sinks.
func executeRun(ctx context.Context, settings *config.Settings, opts runOptions) (*runner.Result, error) {
	cfg, err := config.Load(settings.ConfigPath)
	if err != nil {
		return nil, err
	}

	sinks, err := buildSinks(settings)
	if err != nil {
		return nil, err
	}

	var progress runner.ProgressReporter = &runner.NoOpProgressReporter{}
	if opts.progress {
		progress = NewCLIProgressReporter(opts.stderr)
	}

	r, err := runner.New(parsers.NewJavaParser(), runner.Options{
		Console:         opts.stdout,
		Progress:        progress,
		Exclude:         cfg.Exclude,
		ContinueOnError: settings.ContinueOnError,
	}, sinks...)
	if err != nil {
		return nil, runnerSetupError(err)
	}

	result, err := r.Run(ctx, cfg.FilePaths)
	if opts.summary && result != nil {
		renderSummary(opts.stderr, result)
	}
	return result, err
}

// runnerSetupError reports a bad exclude pattern as a configuration error.
func runnerSetupError(err error) error {
	if errors.Is(err, runner.ErrInvalidPattern) {
		return fmt.Errorf("%w: %w", config.ErrInvalidExclude, err)
	}
	return err
}

func buildSinks(settings *config.Settings) ([]output.Sink, error) {
	fileSink, err := output.NewFileSink(settings.Output.Path, settings.Output.Format)
	if err != nil {
		return nil, err
	}

	sinks := []output.Sink{fileSink}
	if settings.Output.SQLite != "" {
		sinks = append(sinks, output.NewSQLiteSink(settings.Output.SQLite))
	}
	return sinks, nil
}

// watchAndRerun runs, then re-runs the whole batch whenever the input
// configuration or one of the listed files changes, until ctx is canceled.
// Failed runs are reported and watching continues.
func watchAndRerun(ctx context.Context, settings *config.Settings, opts runOptions) error {
	for {
		if _, err := executeRun(ctx, settings, opts); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("Run failed: %v", err)
		}

		changed, err := waitForChange(ctx, watchList(settings))
		if err != nil {
			return err
		}
		if changed == nil {
			return nil
		}
		log.Printf("Detected changes in %s, re-running", strings.Join(changed, ", "))
	}
}

// watchList returns the configuration file and, if it loads, every listed file.
func watchList(settings *config.Settings) []string {
	configPath := settings.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	files := []string{configPath}
	if cfg, err := config.Load(configPath); err == nil {
		files = append(files, cfg.FilePaths...)
	}
	return files
}

// waitForChange blocks until one of files changes. It returns nil when ctx is
// canceled first.
func waitForChange(ctx context.Context, files []string) ([]string, error) {
	fw, err := watcher.NewFileWatcher(files)
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	changes := make(chan []string, 1)
	if err := fw.Start(ctx, func(changed []string) {
		select {
		case changes <- changed:
		default:
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	log.Printf("Watching %d files for changes (Ctrl+C to stop)", len(files))
	select {
	case <-ctx.Done():
		return nil, nil
	case changed := <-changes:
		return changed, nil
	}
}
