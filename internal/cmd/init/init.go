// Package init provides the init command for slpp.
package init

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/completion"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/preprocessor"
)

// answers holds the raw form values.
type answers struct {
	includePaths string
	maxDepth     string
	language     string
	enabled      bool
	lineMarkers  bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		includes []string
		language string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize slpp configuration",
		Long: `Initialize slpp with your include paths and defaults.

This command will guide you through setting up the directories searched
for #include and require files, the include depth limit and the default
script language. The configuration will be saved to ~/.config/slpp/config.yml
(or to the file given with --config; a .toml name writes TOML).`,
		Example: `  # Interactive setup
  slpp init

  # Pre-populate include paths
  slpp init -I ~/sl/include -I 'lib/**'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			return runInit(config.PathOrDefault(path), includes, language)
		},
	}

	cmd.Flags().StringArrayVarP(&includes, "include", "I", nil, "include path pattern to pre-fill, may be repeated")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "default script language to pre-fill: lsl or luau")

	_ = cmd.RegisterFlagCompletionFunc("lang", completion.Languages)

	return cmd
}

func runInit(configPath string, prefillIncludes []string, prefillLanguage string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	a := answers{
		includePaths: strings.Join(prefillIncludes, ", "),
		maxDepth:     strconv.Itoa(preprocessor.DefaultMaxIncludeDepth),
		language:     prefillLanguage,
		enabled:      true,
		lineMarkers:  true,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Include paths").
				Description("Comma-separated directories searched for includes; ** matches any depth").
				Placeholder("~/sl/include, lib/**").
				Value(&a.includePaths),

			huh.NewInput().
				Title("Maximum include depth").
				Description("How deeply includes may nest before preprocessing is aborted; 0 forbids includes").
				Value(&a.maxDepth).
				Validate(validateDepth),

			huh.NewSelect[string]().
				Title("Default language").
				Description("Used when the file extension does not tell").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("LSL", "lsl"),
					huh.NewOption("Luau", "luau"),
				).
				Value(&a.language),

			huh.NewConfirm().
				Title("Write line markers?").
				Description("Markers let runtime errors be traced back to the original files").
				Value(&a.lineMarkers),

			huh.NewConfirm().
				Title("Enable preprocessing?").
				Value(&a.enabled),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg, err := a.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  slpp config test")
	fmt.Println("  slpp preprocess <script.lsl>")

	return nil
}

func validateDepth(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("depth must be a whole number of at least 0")
	}
	return nil
}

// config turns the form answers into a validated Config. Values equal to
// the defaults are left unset so the file stays minimal.
func (a answers) config() (*config.Config, error) {
	cfg := &config.Config{Language: a.language}

	for _, p := range strings.Split(a.includePaths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Include = append(cfg.Include, p)
		}
	}

	if err := validateDepth(a.maxDepth); err != nil {
		return nil, err
	}
	if n, _ := strconv.Atoi(strings.TrimSpace(a.maxDepth)); n != preprocessor.DefaultMaxIncludeDepth {
		cfg.MaxDepth = &n
	}
	if !a.enabled {
		cfg.Enable = config.Bool(false)
	}
	if !a.lineMarkers {
		cfg.LineMarkers = config.Bool(false)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
