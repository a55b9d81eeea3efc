package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective slpp configuration and where each value comes from.`,
		Example: `  # Show current config
  slpp config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(config.PathOrDefault(path), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	source := func(fileSet bool, envVars ...string) string {
		for _, v := range envVars {
			if os.Getenv(v) != "" {
				return v
			}
		}
		if fileSet {
			return "config"
		}
		return "default"
	}

	printField := func(label, value, src string) {
		_, _ = bold.Fprintf(w, "%-16s", label+":")
		if value == "" {
			_, _ = dim.Fprint(w, "-")
		} else {
			fmt.Fprint(w, value)
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", src)
	}

	printField("Enabled", strconv.FormatBool(cfg.Enabled()),
		source(fileCfg.Enable != nil, "SLPP_ENABLED"))
	printField("Include paths", strings.Join(cfg.IncludePaths(), ", "),
		source(len(fileCfg.Include) > 0, "SLPP_INCLUDE_PATHS", "SL_INCLUDE_PATHS"))
	printField("Max depth", strconv.Itoa(cfg.MaxIncludeDepth()),
		source(fileCfg.MaxDepth != nil, "SLPP_MAX_INCLUDE_DEPTH"))
	printField("Language", cfg.Language,
		source(fileCfg.Language != "", "SLPP_LANGUAGE"))
	printField("Line markers", strconv.FormatBool(cfg.Markers()),
		source(fileCfg.LineMarkers != nil))

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
