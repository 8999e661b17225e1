package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var storeFlag string
	var dataDirFlag string
	var settingsFlag string

	ctx := newCommandContext(&storeFlag, &dataDirFlag, &settingsFlag)

	rootCmd := &cobra.Command{
		Use:           "slidescript",
		Short:         "Draft and time a speaking script for a slide deck",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Project store backend (file or sqlite)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the project store")
	rootCmd.PersistentFlags().StringVarP(&settingsFlag, "settings", "s", "", "Settings file (TOML or YAML) with project defaults and patterns")

	rootCmd.AddCommand(newIngestCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newSynthesizeCommand(ctx))
	rootCmd.AddCommand(newRebalanceCommand(ctx))
	rootCmd.AddCommand(newSlideCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newPDFCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))

	return rootCmd
}
