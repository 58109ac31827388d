package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NilFoundation/solbuild/internal/rewrite"
	"github.com/stretchr/testify/suite"
)

type ProcessSuite struct {
	suite.Suite

	contractsDir string
	outDir       string
}

func (s *ProcessSuite) SetupTest() {
	s.contractsDir = s.T().TempDir()
	s.outDir = filepath.Join(s.T().TempDir(), "contracts_processed")

	s.writeContract("Token.sol", "// SPDX-License-Identifier: MIT\npragma solidity ^0.8.0;\ncontract Token {}\n")
	s.writeContract(filepath.Join("mocks", "MockToken.sol"), "pragma solidity ^0.8.0;\ncontract MockToken {}\n")
	s.writeContract("Legacy.sol", "pragma solidity ^0.7.6;\ncontract Legacy {}\n")
}

func (s *ProcessSuite) writeContract(rel, body string) {
	s.T().Helper()
	path := filepath.Join(s.contractsDir, rel)
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o644))
}

func (s *ProcessSuite) newConfig() *Config {
	cfg := &Config{}
	cfg.ResetToDefault()
	cfg.ContractsDir = s.contractsDir
	cfg.OutDir = s.outDir
	cfg.Tool = []string{"cat"}
	cfg.Jobs = 2
	return cfg
}

func (s *ProcessSuite) TestNormalizesLicenseAndPinsPragma() {
	s.Require().NoError(New(s.newConfig()).Run(context.Background()))

	token, err := os.ReadFile(filepath.Join(s.outDir, "Token.sol"))
	s.Require().NoError(err)
	s.Require().True(strings.HasPrefix(string(token), rewrite.License+"\n\n"))
	s.Require().NotContains(string(token), "^0.8.0")
	s.Require().Contains(string(token), "pragma solidity 0.8.0;")

	legacy, err := os.ReadFile(filepath.Join(s.outDir, "Legacy.sol"))
	s.Require().NoError(err)
	s.Require().Contains(string(legacy), "pragma solidity ^0.7.6;")
}

func (s *ProcessSuite) TestFullRunRebuildsOutputRoot() {
	s.Require().NoError(os.MkdirAll(s.outDir, 0o755))
	stale := filepath.Join(s.outDir, "Stale.sol")
	s.Require().NoError(os.WriteFile(stale, []byte("old"), 0o644))

	s.Require().NoError(New(s.newConfig()).Run(context.Background()))
	s.Require().NoFileExists(stale)
}

func (s *ProcessSuite) TestFilteredRunIsIncremental() {
	s.Require().NoError(os.MkdirAll(s.outDir, 0o755))
	stale := filepath.Join(s.outDir, "Stale.sol")
	s.Require().NoError(os.WriteFile(stale, []byte("old"), 0o644))

	cfg := s.newConfig()
	cfg.Files = []string{"Token.sol", filepath.Join("mocks", "MockToken.sol")}
	s.Require().NoError(New(cfg).Run(context.Background()))

	// listed contracts are written, the rest of the output root is untouched
	s.Require().FileExists(filepath.Join(s.outDir, "Token.sol"))
	s.Require().FileExists(filepath.Join(s.outDir, "mocks", "MockToken.sol"))
	s.Require().FileExists(stale)
	s.Require().NoFileExists(filepath.Join(s.outDir, "Legacy.sol"))
}

func (s *ProcessSuite) TestFilteredRunContinuesPastFailures() {
	cfg := s.newConfig()
	cfg.Files = []string{"Missing.sol", "Token.sol"}
	cfg.Jobs = 1

	err := New(cfg).Run(context.Background())
	s.Require().Error(err)
	s.Require().FileExists(filepath.Join(s.outDir, "Token.sol"))
}

func TestProcessSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ProcessSuite))
}
