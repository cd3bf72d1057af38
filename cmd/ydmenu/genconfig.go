package ydmenu

import (
	"fmt"

	"github.com/arthur-debert/ydmenu/pkg/config"
	"github.com/spf13/cobra"
)

func (a *App) newGenConfigCmd() *cobra.Command {
	var (
		format   string
		defaults bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
				return nil
			}

			cfg, err := a.flags.loadConfig(a.deps)
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}
			content, err := cfg.Dump(format)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTOML, "Output format: toml or yaml")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the commented default configuration")
	return cmd
}
