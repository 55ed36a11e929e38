// Command filebox is the terminal client for a filebox server: browse,
// upload, download, share and watch your files from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagServer  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "filebox",
	Short: "Personal file manager client",
	Long: `filebox is the terminal client for a filebox server.

Log in once with "filebox login"; the session token is stored locally and
reused by every other command. Run "filebox browse" for the interactive
browser, or use the individual commands for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/filebox/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		whoamiCmd,
		lsCmd,
		uploadCmd,
		downloadCmd,
		mkdirCmd,
		rmCmd,
		restoreCmd,
		purgeCmd,
		shareCmd,
		watchCmd,
		browseCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
