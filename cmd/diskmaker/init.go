package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxygene76/diskmaker/pkg/utils"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `Init writes the default configuration as YAML to path, to the file named by
--config, or to ` + defaultConfigFile + ` in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			switch {
			case len(args) == 1:
				path = args[0]
			case a.cfgFile != "":
				path = a.cfgFile
			}

			if err := utils.SaveConfig(utils.DefaultConfig(), path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
