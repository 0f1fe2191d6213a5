package cmd

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/spf13/cobra"
)

var checkCMD = &cobra.Command{
	Use:   "check",
	Short: "validate configuration",
	Long:  `load the configuration file and environment, then report every invalid setting`,
	Args:  gcmd.NoExtraArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initialize(context.Background(), cmd); err != nil {
			return errors.Wrap(err, "init")
		}
		if err := validateStartupConfig(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "configuration ok")
		return nil
	},
}

func init() {
	rootCMD.AddCommand(checkCMD)
}
