package abi

import (
	"github.com/NilFoundation/solbuild/cmd/solbuild/internal/common"
	"github.com/NilFoundation/solbuild/internal/abiindex"
	"github.com/spf13/cobra"
)

func GetCommand(cfg *common.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "abi",
		Short:        "Extract contract ABIs from build artifacts and generate directory indexes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return abiindex.New(cfg.AbiConfig()).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.ArtifactsDir, "artifacts-dir", cfg.ArtifactsDir, "hardhat build artifacts root")
	cmd.Flags().StringVar(&cfg.AbiDir, "out-dir", cfg.AbiDir, "output root for extracted ABIs (rebuilt on every run)")
	common.AddJobsFlag(cmd, cfg)

	return cmd
}
