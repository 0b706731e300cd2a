package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/javameta/internal/parsers"
	"github.com/mvp-joe/javameta/internal/runner"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Print the declaration descriptors of Java files",
	Long: `Inspect parses the given Java files and prints their descriptors exactly as a
run would, without reading the input configuration or writing any output record.

Examples:
  javameta inspect src/main/java/Main.java
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return executeInspect(ctx, args, cmd.OutOrStdout())
}

func executeInspect(ctx context.Context, paths []string, out io.Writer) error {
	r, err := runner.New(parsers.NewJavaParser(), runner.Options{Console: out})
	if err != nil {
		return err
	}
	_, err = r.Run(ctx, paths)
	return err
}
