package common

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/NilFoundation/solbuild/internal/abiindex"
	"github.com/NilFoundation/solbuild/internal/flatten"
	"github.com/NilFoundation/solbuild/internal/hardhat"
	"github.com/NilFoundation/solbuild/internal/process"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config carries the knobs shared by the solbuild commands. Values come from
// defaults, then the optional config file, then flags, in that order.
type Config struct {
	ContractsDir string   `yaml:"contracts-dir"`
	FlatDir      string   `yaml:"flat-dir"`
	ProcessedDir string   `yaml:"processed-dir"`
	ArtifactsDir string   `yaml:"artifacts-dir"`
	AbiDir       string   `yaml:"abi-dir"`
	Tool         []string `yaml:"tool"`
	Jobs         int      `yaml:"jobs"`
	Timeout      string   `yaml:"timeout"`
	Retries      uint32   `yaml:"retries"`
}

func (c *Config) ResetToDefault() {
	c.ContractsDir = "contracts"
	c.FlatDir = "contracts_flat"
	c.ProcessedDir = "contracts_processed"
	c.ArtifactsDir = filepath.Join("artifacts", "contracts")
	c.AbiDir = "abi"
	c.Tool = slices.Clone(hardhat.DefaultCommand)
	c.Jobs = 1
	c.Timeout = hardhat.DefaultTimeout.String()
	c.Retries = 0
}

func (c *Config) InitFromFile(cfgFile string) bool {
	if cfgFile == "" {
		return false
	}
	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		c.ResetToDefault()
		return false
	}
	// Defaults seeded from the current values so a partial file overrides
	// only what it names.
	v.SetDefault("contracts-dir", c.ContractsDir)
	v.SetDefault("flat-dir", c.FlatDir)
	v.SetDefault("processed-dir", c.ProcessedDir)
	v.SetDefault("artifacts-dir", c.ArtifactsDir)
	v.SetDefault("abi-dir", c.AbiDir)
	v.SetDefault("tool", c.Tool)
	v.SetDefault("jobs", c.Jobs)
	v.SetDefault("timeout", c.Timeout)
	v.SetDefault("retries", c.Retries)

	c.ContractsDir = v.GetString("contracts-dir")
	c.FlatDir = v.GetString("flat-dir")
	c.ProcessedDir = v.GetString("processed-dir")
	c.ArtifactsDir = v.GetString("artifacts-dir")
	c.AbiDir = v.GetString("abi-dir")
	c.Tool = v.GetStringSlice("tool")
	c.Jobs = v.GetInt("jobs")
	c.Timeout = v.GetString("timeout")
	c.Retries = v.GetUint32("retries")
	return true
}

func (c *Config) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

func (c *Config) FlattenConfig() (*flatten.Config, error) {
	timeout, err := c.timeout()
	if err != nil {
		return nil, err
	}
	return &flatten.Config{
		ContractsDir: c.ContractsDir,
		OutDir:       c.FlatDir,
		Tool:         c.Tool,
		Jobs:         c.Jobs,
		Timeout:      timeout,
		Retries:      c.Retries,
	}, nil
}

func (c *Config) ProcessConfig(files []string) (*process.Config, error) {
	timeout, err := c.timeout()
	if err != nil {
		return nil, err
	}
	return &process.Config{
		ContractsDir: c.ContractsDir,
		OutDir:       c.ProcessedDir,
		Files:        files,
		Tool:         c.Tool,
		Jobs:         c.Jobs,
		Timeout:      timeout,
		Retries:      c.Retries,
	}, nil
}

func (c *Config) AbiConfig() *abiindex.Config {
	return &abiindex.Config{
		ArtifactsDir: c.ArtifactsDir,
		OutDir:       c.AbiDir,
		Jobs:         c.Jobs,
	}
}

// AddToolFlags registers the external-tool knobs shared by the flatten and
// process commands.
func AddToolFlags(cmd *cobra.Command, cfg *Config) {
	cmd.Flags().StringSliceVar(&cfg.Tool, "tool", cfg.Tool, "flattening command, the contract path is appended")
	cmd.Flags().StringVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-contract tool timeout, 0 to disable")
	cmd.Flags().Uint32Var(&cfg.Retries, "retries", cfg.Retries, "retries per failed tool invocation")
	AddJobsFlag(cmd, cfg)
}

func AddJobsFlag(cmd *cobra.Command, cfg *Config) {
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", cfg.Jobs, "number of contracts processed in parallel")
}
