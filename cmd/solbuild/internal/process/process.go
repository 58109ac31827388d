package process

import (
	"github.com/NilFoundation/solbuild/cmd/solbuild/internal/common"
	pipeline "github.com/NilFoundation/solbuild/internal/process"
	"github.com/spf13/cobra"
)

func GetCommand(cfg *common.Config) *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:          "process",
		Short:        "Flatten contracts, normalize license headers and pin floating pragmas",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipelineCfg, err := cfg.ProcessConfig(files)
			if err != nil {
				return err
			}
			return pipeline.New(pipelineCfg).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.ContractsDir, "contracts-dir", cfg.ContractsDir, "input contracts root")
	cmd.Flags().StringVar(&cfg.ProcessedDir, "out-dir", cfg.ProcessedDir, "output root for processed contracts")
	cmd.Flags().StringSliceVarP(&files, "files", "f", nil,
		"process only these contracts (paths relative to the contracts root); skips the output-root rebuild")
	common.AddToolFlags(cmd, cfg)

	return cmd
}
