package abiindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NilFoundation/solbuild/common/concurrent"
	"github.com/NilFoundation/solbuild/common/logging"
	"github.com/NilFoundation/solbuild/internal/mirror"
	jsoniter "github.com/json-iterator/go"
)

var logger = logging.NewLogger("abi")

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	ArtifactsDir string
	OutDir       string
	Jobs         int
}

func (c *Config) ResetToDefault() {
	c.ArtifactsDir = filepath.Join("artifacts", "contracts")
	c.OutDir = "abi"
	c.Jobs = 1
}

// Pipeline extracts contract ABIs from hardhat build artifacts into a flat
// directory tree and renders a browsable index.html per directory. The
// artifacts layout puts each contract's JSON under a directory named after
// its source file: <dir>/Foo.sol/Foo.json.
type Pipeline struct {
	cfg *Config
}

func New(cfg *Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

func (p *Pipeline) Run(ctx context.Context) error {
	entries, err := mirror.Walk(p.cfg.ArtifactsDir)
	if err != nil {
		return err
	}

	m := mirror.Mirror{InRoot: p.cfg.ArtifactsDir, OutRoot: p.cfg.OutDir}
	if err := m.Rebuild(); err != nil {
		return err
	}

	// Raw artifact JSONs don't get mirrored directories of their own: the
	// tree shape comes from the per-contract subdirectories and other
	// non-JSON siblings.
	dirs := mirror.Parents(entries, func(e mirror.Entry) bool {
		return !strings.HasSuffix(e.Path, ".json")
	})
	if err := m.Map(dirs); err != nil {
		return err
	}

	// The whole output tree is generated, keep it out of version control.
	gitignore := filepath.Join(p.cfg.OutDir, ".gitignore")
	if err := os.WriteFile(gitignore, []byte("*\n"), 0o644); err != nil {
		return fmt.Errorf("can't write %s: %w", gitignore, err)
	}

	var contracts []string
	for _, e := range entries {
		if strings.HasSuffix(e.Path, ".sol") {
			contracts = append(contracts, e.Path)
		}
	}

	logger.Info().
		Int(logging.FieldJobs, p.cfg.Jobs).
		Msgf("extracting %d ABIs from %s into %s", len(contracts), p.cfg.ArtifactsDir, p.cfg.OutDir)

	extractErr := concurrent.ForEach(ctx, p.cfg.Jobs, contracts, func(_ context.Context, path string) error {
		if err := p.extract(m, path); err != nil {
			// A broken artifact skips that contract, the index build goes on.
			logger.Error().Err(err).Str(logging.FieldPath, path).Msg("ABI extraction failed")
			return err
		}
		return nil
	})

	// Indexes are generated strictly after every extraction finished, so each
	// listing sees the directory's final contents.
	for _, dir := range dirs {
		outDir, err := m.OutPath(dir)
		if err != nil {
			return errors.Join(extractErr, err)
		}
		if err := writeIndex(outDir); err != nil {
			return errors.Join(extractErr, err)
		}
	}

	return extractErr
}

// extract reads the artifact JSON of the contract entry and writes its "abi"
// value, compacted, to the mirrored output path.
func (p *Pipeline) extract(m mirror.Mirror, path string) error {
	base := strings.TrimSuffix(filepath.Base(path), ".sol")
	artifactPath := filepath.Join(path, base+".json")

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return fmt.Errorf("can't read artifact: %w", err)
	}

	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := jsonCodec.Unmarshal(data, &artifact); err != nil {
		return fmt.Errorf("malformed artifact %s: %w", artifactPath, err)
	}
	if artifact.ABI == nil {
		return fmt.Errorf("artifact %s has no \"abi\" key", artifactPath)
	}

	// Compacting the raw value keeps the key order of the artifact while
	// dropping every bit of insignificant whitespace.
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, artifact.ABI); err != nil {
		return fmt.Errorf("malformed abi in %s: %w", artifactPath, err)
	}

	outPath, err := m.OutPath(path)
	if err != nil {
		return err
	}
	outPath = strings.TrimSuffix(outPath, ".sol") + ".json"

	if err := os.WriteFile(outPath, compacted.Bytes(), 0o644); err != nil {
		return fmt.Errorf("can't write ABI %s: %w", outPath, err)
	}
	return nil
}
