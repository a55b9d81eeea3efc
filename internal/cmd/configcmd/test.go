package configcmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/host"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configuration",
		Long: `Validate the slpp configuration and check that every include path
pattern matches at least one directory.`,
		Example: `  # Check config
  slpp config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg, err := config.LoadWithEnv(config.PathOrDefault(path))
			if err != nil {
				return fmt.Errorf("failed to load config: %w (run 'slpp init' to configure)", err)
			}
			return runTest(cfg, host.NewOSHost(""), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(cfg *config.Config, h *host.OSHost, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	if err := cfg.Validate(); err != nil {
		_, _ = red.Fprintln(w, "✗ Invalid configuration:", err)
		fmt.Fprintln(w, "\nReconfigure with: slpp init")
		return fmt.Errorf("invalid config: %w", err)
	}
	_, _ = green.Fprintln(w, "✓ Configuration is valid")

	if !cfg.Enabled() {
		_, _ = yellow.Fprintln(w, "! Preprocessing is disabled; scripts pass through unchanged")
	}

	missing := 0
	for _, pattern := range cfg.IncludePaths() {
		dirs, err := h.IncludeDirs([]string{pattern})
		if err != nil {
			_, _ = red.Fprintf(w, "✗ Include path %s: %v\n", pattern, err)
			return err
		}
		if len(dirs) == 0 {
			missing++
			_, _ = yellow.Fprintf(w, "! Include path %s matches no directory\n", pattern)
			continue
		}
		_, _ = green.Fprintf(w, "✓ Include path %s (%d director%s)\n", pattern, len(dirs), plural(len(dirs)))
	}

	fmt.Fprintf(w, "\nMaximum include depth: %d\n", cfg.MaxIncludeDepth())
	if missing > 0 {
		return fmt.Errorf("%d include path(s) match no directory", missing)
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
