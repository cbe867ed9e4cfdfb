// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold_test

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	tp_file "github.com/codeactual/fixgold/internal/third_party/gist.github.com/os/file"

	cage_file "github.com/codeactual/fixgold/internal/cage/os/file"
	cage_testkit "github.com/codeactual/fixgold/internal/cage/testkit"
	testkit_file "github.com/codeactual/fixgold/internal/cage/testkit/os/file"
	"github.com/codeactual/fixgold/internal/fixgold"
)

type Suite struct {
	suite.Suite

	Wd string
}

func (s *Suite) SetupTest() {
	var err error

	t := s.T()

	s.Wd, err = os.Getwd()
	require.NoError(t, err)

	s.Wd, err = filepath.Abs(s.Wd)
	require.NoError(t, err)
}

func (s *Suite) FixturePath(groupId string, fixtureIdParts ...string) string {
	return filepath.Join(append([]string{s.Wd, "testdata", "fixture", groupId}, fixtureIdParts...)...)
}

// CatOp returns a finalized Op whose fixer echoes its input unchanged, so a
// case passes exactly when its golden file equals its stripped input.
func (s *Suite) CatOp(opId, fixtureDir string) fixgold.Op {
	op := fixgold.Op{
		Id:         opId,
		FixtureDir: fixtureDir,
		Fixer:      fixgold.Fixer{Cmd: []string{"cat"}},
		Ext: fixgold.Ext{
			Input:   fixgold.DefaultInputSuffix,
			Golden:  fixgold.DefaultGoldenSuffix,
			Archive: fixgold.DefaultArchiveSuffix,
		},
		FixturePath: fixgold.FilePathQuery{Include: []string{"**"}},
	}
	op.FixturePath.ResolveTo(op.FixtureDir)
	cage_testkit.RequireNoErrors(s.T(), op.Validate())
	return op
}

// FakeFixerPath returns the path of the identity-fixer script used by cases
// which need a --version flag or a file argument, restoring the executable
// mode bit in case the checkout dropped it.
func (s *Suite) FakeFixerPath() string {
	t := s.T()
	p := s.FixturePath("runner", "bin", "fakefix")
	require.NoError(t, os.Chmod(p, 0755))
	return p
}

// MustGenerate audits the corpus and requires a defect-free result.
func (s *Suite) MustGenerate(op fixgold.Op) *fixgold.Audit {
	t := s.T()

	audit := fixgold.NewAudit(op)
	cage_testkit.RequireNoErrors(t, audit.Generate())
	require.Empty(t, audit.Findings)

	return audit
}

// SeedCorpus copies a fixture corpus into the dynamic test data dir so bless
// runs can modify golden files w/o modifying repository files.
func (s *Suite) SeedCorpus(groupId string, fixtureIdParts ...string) string {
	t := s.T()

	dest := testkit_file.DynamicDataDirAbs(t)
	require.NoError(t, cage_file.RemoveAllSafer(dest))
	require.NoError(t, tp_file.CopyDir(s.FixturePath(groupId, fixtureIdParts...), dest))

	return dest
}

// ReadCorpusFile returns the content of one seeded corpus file.
func (s *Suite) ReadCorpusFile(corpusDir string, relPathParts ...string) string {
	t := s.T()

	b, err := ioutil.ReadFile(filepath.Join(append([]string{corpusDir}, relPathParts...)...))
	require.NoError(t, err)

	return string(b)
}
