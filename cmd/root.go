package cmd

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	loader := &appLoader{}

	rootCmd := &cobra.Command{
		Use:           "paymail",
		Short:         "Vendor payment confirmation mailer",
		Long:          "paymail watches vendor payment snapshots and sends payment confirmation emails, rotating across a pool of sending accounts under a daily quota.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&loader.opts.ConfigFile, "config", "", "config file (default $HOME/.paymail/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(loader),
		newSendCmd(loader),
		newDiffCmd(),
		newAccountsCmd(loader),
	)

	return rootCmd
}
