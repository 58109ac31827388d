package flatten

import (
	"github.com/NilFoundation/solbuild/cmd/solbuild/internal/common"
	pipeline "github.com/NilFoundation/solbuild/internal/flatten"
	"github.com/spf13/cobra"
)

func GetCommand(cfg *common.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "flatten",
		Short:        "Flatten contracts and normalize their license headers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipelineCfg, err := cfg.FlattenConfig()
			if err != nil {
				return err
			}
			return pipeline.New(pipelineCfg).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.ContractsDir, "contracts-dir", cfg.ContractsDir, "input contracts root")
	cmd.Flags().StringVar(&cfg.FlatDir, "out-dir", cfg.FlatDir, "output root for flattened contracts (rebuilt on every run)")
	common.AddToolFlags(cmd, cfg)

	return cmd
}
