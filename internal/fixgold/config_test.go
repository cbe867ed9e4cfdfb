// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	cage_testkit "github.com/codeactual/fixgold/internal/cage/testkit"
	testkit_require "github.com/codeactual/fixgold/internal/cage/testkit/testify/require"
	"github.com/codeactual/fixgold/internal/fixgold"
)

// Cases refer to the operations defined in ./testdata/fixture/config/fixgold.yml.

type ConfigSuite struct {
	Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefaults() {
	t := s.T()

	opId := "unwrap"

	var config fixgold.Config
	cage_testkit.RequireNoErrors(t, config.ReadFile(s.FixturePath("config", "fixgold.yml"), opId))

	op, ok := config.Ops[opId]
	require.True(t, ok)

	require.Exactly(t, opId, op.Id)

	// "{{.corpus_root}}" expands through the Template section to "{{._config_dir}}/corpus".
	require.Exactly(t, s.FixturePath("config", "corpus"), op.FixtureDir)

	require.Exactly(t, []string{"unwrapfix", "-stdin"}, op.Fixer.Cmd)

	require.Exactly(t, fixgold.DefaultInputSuffix, op.Ext.Input)
	require.Exactly(t, fixgold.DefaultGoldenSuffix, op.Ext.Golden)
	require.Exactly(t, fixgold.DefaultArchiveSuffix, op.Ext.Archive)

	require.Exactly(t, []string{filepath.Join(op.FixtureDir, "**")}, op.FixturePath.Include)
	require.Empty(t, op.FixturePath.Exclude)

	// Operations outside the requested ID list are left unfinalized.
	require.Exactly(t, "", config.Ops["pinned"].Id)
}

func (s *ConfigSuite) TestOverrides() {
	t := s.T()

	opId := "pinned"

	var config fixgold.Config
	cage_testkit.RequireNoErrors(t, config.ReadFile(s.FixturePath("config", "fixgold.yml"), opId))

	op := config.Ops[opId]

	require.Exactly(t, s.FixturePath("config", "corpus"), op.FixtureDir)

	require.Exactly(t, "--version", op.Fixer.VersionArg)
	require.Exactly(t, "1.2.0", op.Fixer.MinVersion)

	require.Exactly(t, ".src.go", op.Ext.Input)
	require.Exactly(t, ".ok.src.go", op.Ext.Golden)
	require.Exactly(t, ".arch", op.Ext.Archive)

	require.Exactly(t, []string{filepath.Join(op.FixtureDir, "unwrap", "**")}, op.FixturePath.Include)
	require.Exactly(t, []string{filepath.Join(op.FixtureDir, "unwrap", "skip", "**")}, op.FixturePath.Exclude)

	require.Exactly(t, 2, op.MaxParallel)
}

func (s *ConfigSuite) TestExpandEnv() {
	t := s.T()

	opId := "env"

	corpusDir := s.FixturePath("config")
	require.NoError(t, os.Setenv("FIXGOLD_TEST_CORPUS", corpusDir))
	require.NoError(t, os.Setenv("FIXGOLD_TEST_FIXER", "unwrapfix"))

	var config fixgold.Config
	cage_testkit.RequireNoErrors(t, config.ReadFile(s.FixturePath("config", "fixgold.yml"), opId))

	op := config.Ops[opId]
	require.Exactly(t, corpusDir, op.FixtureDir)
	require.Exactly(t, []string{"unwrapfix"}, op.Fixer.Cmd)
}

func (s *ConfigSuite) TestValidate() {
	t := s.T()

	var config fixgold.Config
	errs := config.ReadFile(s.FixturePath("config", "fixgold.yml"), "invalid")
	require.Len(t, errs, 2)
	testkit_require.StringContains(t, errs[0].Error(), "Fixer.Cmd is empty")
	testkit_require.StringContains(t, errs[1].Error(), "Fixer.MinVersion requires Fixer.VersionArg")
}

func (s *ConfigSuite) TestNoConfigSelected() {
	t := s.T()

	// The package dir holds no fixgold.* file to default to.
	var config fixgold.Config
	errs := config.ReadFile("")
	require.Len(t, errs, 1)
	testkit_require.StringContains(t, errs[0].Error(), "no config file selected")
}

func (s *ConfigSuite) TestMissingFile() {
	t := s.T()

	var config fixgold.Config
	errs := config.ReadFile(s.FixturePath("config", "no_such.yml"))
	require.Len(t, errs, 1)
	testkit_require.StringContains(t, errs[0].Error(), "failed to locate config file")
}
