package main

import (
	"fmt"
	"os"

	"github.com/NilFoundation/solbuild/cmd/solbuild/internal/abi"
	"github.com/NilFoundation/solbuild/cmd/solbuild/internal/common"
	"github.com/NilFoundation/solbuild/cmd/solbuild/internal/flatten"
	"github.com/NilFoundation/solbuild/cmd/solbuild/internal/process"
	"github.com/NilFoundation/solbuild/common/check"
	"github.com/NilFoundation/solbuild/common/logging"
	"github.com/NilFoundation/solbuild/internal/cobrax"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const appTitle = "solbuild"

func main() {
	cfg := &common.Config{}
	cfg.ResetToDefault()
	// The config is loaded before argument parsing: its values become the
	// defaults of the flags below.
	cfg.InitFromFile(cobrax.GetConfigNameFromArgs())

	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "solbuild [global flags] [command]",
		Short:         "Build utilities for hardhat Solidity projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupGlobalLogger(logLevel)
			logging.ApplyComponentsFilterEnv()
		},
	}

	cobrax.AddConfigFlag(rootCmd.PersistentFlags())
	cobrax.AddLogLevelFlag(rootCmd.PersistentFlags(), &logLevel)

	rootCmd.AddCommand(
		flatten.GetCommand(cfg),
		process.GetCommand(cfg),
		abi.GetCommand(cfg),
		createConfigCommand(cfg),
		cobrax.VersionCmd(appTitle),
	)
	cobrax.ExitOnHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("solbuild failed: %s\n", err.Error())
		os.Exit(1)
	}
}

func createConfigCommand(cfg *common.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create-config",
		Short: "Create config file",
		Long:  "Create config file which can be specified by `--config` flag. By default it creates `./solbuild.yaml`",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := cobrax.GetConfigNameFromArgs()
			if name == "" {
				name = "./solbuild.yaml"
			}

			data, err := yaml.Marshal(cfg)
			check.PanicIfErr(err)

			if err := os.WriteFile(name, data, 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			fmt.Printf("Config file %s has been created\n", name)
			return nil
		},
	}
}
