package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NilFoundation/solbuild/common/concurrent"
	"github.com/NilFoundation/solbuild/common/logging"
	"github.com/NilFoundation/solbuild/internal/hardhat"
	"github.com/NilFoundation/solbuild/internal/mirror"
	"github.com/NilFoundation/solbuild/internal/rewrite"
	"github.com/fatih/color"
)

var logger = logging.NewLogger("process")

type Config struct {
	ContractsDir string
	OutDir       string
	// Files restricts the run to the given paths, relative to ContractsDir.
	// When set, the output root is left as is so reruns stay incremental.
	Files   []string
	Tool    []string
	Jobs    int
	Timeout time.Duration
	Retries uint32
}

func (c *Config) ResetToDefault() {
	c.ContractsDir = "contracts"
	c.OutDir = "contracts_processed"
	c.Files = nil
	c.Tool = hardhat.DefaultCommand
	c.Jobs = 1
	c.Timeout = hardhat.DefaultTimeout
	c.Retries = 0
}

// Pipeline flattens contracts like the flatten pipeline and additionally pins
// floating pragma declarations. Without an explicit file list it rebuilds the
// output root; with one it processes only the listed contracts in place.
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
	m := mirror.Mirror{InRoot: p.cfg.ContractsDir, OutRoot: p.cfg.OutDir}
	incremental := len(p.cfg.Files) > 0

	var contracts []string
	if incremental {
		for _, f := range p.cfg.Files {
			contracts = append(contracts, filepath.Join(p.cfg.ContractsDir, f))
		}
	} else {
		entries, err := mirror.Walk(p.cfg.ContractsDir)
		if err != nil {
			return err
		}
		if err := m.Rebuild(); err != nil {
			return err
		}
		if err := m.Map(mirror.Parents(entries, nil)); err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir && strings.HasSuffix(e.Path, ".sol") {
				contracts = append(contracts, e.Path)
			}
		}
	}

	logger.Info().
		Int(logging.FieldJobs, p.cfg.Jobs).
		Bool("incremental", incremental).
		Msgf("processing %d contracts from %s into %s", len(contracts), p.cfg.ContractsDir, p.cfg.OutDir)

	return concurrent.ForEach(ctx, p.cfg.Jobs, contracts, func(ctx context.Context, path string) error {
		fmt.Printf("processing %s\n", path)

		body, err := p.flattener.Flatten(ctx, path)
		if err != nil {
			color.Red("ERROR")
			logger.Error().Err(err).Str(logging.FieldPath, path).Msg("processing failed")
			return err
		}

		outPath, err := m.OutPath(path)
		if err != nil {
			return err
		}
		if incremental {
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("can't create output directory for %s: %w", outPath, err)
			}
		}

		output := rewrite.PinPragma(rewrite.NormalizeLicense(string(body)))
		if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
			return fmt.Errorf("can't write processed contract %s: %w", outPath, err)
		}
		return nil
	})
}
