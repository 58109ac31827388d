package flatten

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/NilFoundation/solbuild/common/concurrent"
	"github.com/NilFoundation/solbuild/common/logging"
	"github.com/NilFoundation/solbuild/internal/hardhat"
	"github.com/NilFoundation/solbuild/internal/mirror"
	"github.com/NilFoundation/solbuild/internal/rewrite"
	"github.com/fatih/color"
)

var logger = logging.NewLogger("flatten")

type Config struct {
	ContractsDir string
	OutDir       string
	Tool         []string
	Jobs         int
	Timeout      time.Duration
	Retries      uint32
}

func (c *Config) ResetToDefault() {
	c.ContractsDir = "contracts"
	c.OutDir = "contracts_flat"
	c.Tool = hardhat.DefaultCommand
	c.Jobs = 1
	c.Timeout = hardhat.DefaultTimeout
	c.Retries = 0
}

// Pipeline reads every contract under the contracts root, flattens it with
// the external tool, normalizes the license header and writes the result to
// the mirrored path under the output root. The output root is rebuilt from
// scratch on every run.
type Pipeline struct {
	cfg       *Config
	flattener *hardhat.Flattener
}

func New(cfg *Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		flattener: hardhat.New(logger,
			hardhat.WithCommand(cfg.Tool),
			hardhat.WithTimeout(cfg.Timeout),
			hardhat.WithRetries(cfg.Retries)),
	}
}

func (p *Pipeline) Run(ctx context.Context) error {
	entries, err := mirror.Walk(p.cfg.ContractsDir)
	if err != nil {
		return err
	}

	m := mirror.Mirror{InRoot: p.cfg.ContractsDir, OutRoot: p.cfg.OutDir}
	if err := m.Rebuild(); err != nil {
		return err
	}
	if err := m.Map(mirror.Parents(entries, nil)); err != nil {
		return err
	}

	var contracts []string
	for _, e := range entries {
		if !e.IsDir && strings.HasSuffix(e.Path, ".sol") {
			contracts = append(contracts, e.Path)
		}
	}

	logger.Info().
		Int(logging.FieldJobs, p.cfg.Jobs).
		Msgf("flattening %d contracts from %s into %s", len(contracts), p.cfg.ContractsDir, p.cfg.OutDir)

	return concurrent.ForEach(ctx, p.cfg.Jobs, contracts, func(ctx context.Context, path string) error {
		fmt.Printf("> %s\n", strings.Join(p.flattener.Command(path), " "))

		body, err := p.flattener.Flatten(ctx, path)
		if err != nil {
			color.Red("ERROR")
			logger.Error().Err(err).Str(logging.FieldPath, path).Msg("flattening failed")
			return err
		}

		outPath, err := m.OutPath(path)
		if err != nil {
			return err
		}
		output := rewrite.NormalizeLicense(string(body))
		if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
			return fmt.Errorf("can't write flattened contract %s: %w", outPath, err)
		}
		return nil
	})
}
