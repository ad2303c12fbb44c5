package main

import (
	"io"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate shell completion script",
	Long: `Generate a completion script for lsexport.

The script is written to stdout. Source it in the current shell or
install it permanently:

  bash:        source <(lsexport completion bash)
  zsh:         lsexport completion zsh > "${fpath[1]}/_lsexport"
  fish:        lsexport completion fish | source
  powershell:  lsexport completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		generators := map[string]func(io.Writer) error{
			"bash": rootCmd.GenBashCompletion,
			"zsh":  rootCmd.GenZshCompletion,
			"fish": func(w io.Writer) error {
				return rootCmd.GenFishCompletion(w, true)
			},
			"powershell": rootCmd.GenPowerShellCompletion,
		}
		return generators[args[0]](cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
