package completion

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// shell describes how to generate and install the completion script for
// one shell.
type shell struct {
	name     string
	title    string
	session  string
	install  string
	example  string
	generate func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name:    "bash",
		title:   "bash",
		session: "source <(slpp completion bash)",
		install: `  # Linux
  slpp completion bash > /etc/bash_completion.d/slpp

  # macOS (requires bash-completion)
  slpp completion bash > $(brew --prefix)/etc/bash_completion.d/slpp`,
		example: `  # Install permanently (Linux)
  slpp completion bash | sudo tee /etc/bash_completion.d/slpp > /dev/null`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletion(w)
		},
	},
	{
		name:    "zsh",
		title:   "zsh",
		session: "source <(slpp completion zsh)",
		install: `  # enable completion once in ~/.zshrc
  autoload -Uz compinit && compinit

  slpp completion zsh > "${fpath[1]}/_slpp"`,
		example: `  # Install permanently
  mkdir -p ~/.zsh/completions
  slpp completion zsh > ~/.zsh/completions/_slpp`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name:    "fish",
		title:   "fish",
		session: "slpp completion fish | source",
		install: "  slpp completion fish > ~/.config/fish/completions/slpp.fish",
		example: `  # Install permanently
  slpp completion fish > ~/.config/fish/completions/slpp.fish`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name:    "powershell",
		title:   "PowerShell",
		session: "slpp completion powershell | Out-String | Invoke-Expression",
		install: "  slpp completion powershell >> $PROFILE",
		example: `  # Install permanently
  slpp completion powershell >> $PROFILE`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// scriptHelp says what the generated scripts complete beyond command names.
func scriptHelp() string {
	exts, _ := ScriptFiles(nil, nil, "")
	langs, _ := Languages(nil, nil, "")
	return "File arguments complete to ." + strings.Join(exts, ", .") +
		" files and --lang completes to " + strings.Join(langs, " or ") + "."
}

func newShellCmd(s shell) *cobra.Command {
	return &cobra.Command{
		Use:   s.name,
		Short: "Generate " + s.title + " completion script",
		Long: "Generate " + s.title + " completion script for slpp.\n\n" +
			scriptHelp() + "\n\n" +
			"To load completions in your current shell session:\n\n  " + s.session + "\n\n" +
			"To load completions for every new session:\n\n" + s.install,
		Example:               "  # Load in current session\n  " + s.session + "\n\n" + s.example,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.generate(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
