// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	testkit_require "github.com/codeactual/fixgold/internal/cage/testkit/testify/require"
	"github.com/codeactual/fixgold/internal/fixgold"
)

type AuditSuite struct {
	Suite
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) TestCleanCorpus() {
	t := s.T()

	audit := s.MustGenerate(s.CatOp("verify", s.FixturePath("audit", "ok")))

	var names []string
	for _, c := range audit.Cases {
		names = append(names, c.Name)
	}
	testkit_require.StringSliceExactly(t, []string{
		"unwrap/archived",
		"unwrap/basic",
		"wrapcheck/delete_all",
	}, names)

	archived, ok := audit.Case("unwrap/archived")
	require.True(t, ok)
	require.Exactly(t, "unwrap", archived.Rule)
	require.True(t, archived.Archive)
	require.Exactly(t, archived.InputPath, archived.GoldenPath)
	testkit_require.StringContains(t, string(archived.Input), "var n = ((2))")
	testkit_require.StringContains(t, string(archived.Golden), "var n = 2")

	basic, ok := audit.Case("unwrap/basic")
	require.True(t, ok)
	require.False(t, basic.Archive)
	require.Len(t, basic.Directives, 1)
	require.Exactly(t, fixgold.DirectiveWant, basic.Directives[0].Kind)
	require.Exactly(t, "unnecessary literal unwrapping", basic.Directives[0].Msg)

	// A fix may legally delete the file's entire content.
	deleteAll, ok := audit.Case("wrapcheck/delete_all")
	require.True(t, ok)
	require.Empty(t, deleteAll.Golden)

	_, ok = audit.Case("unwrap/no_such_case")
	require.False(t, ok)
}

func (s *AuditSuite) TestDefectiveCorpus() {
	t := s.T()

	op := s.CatOp("verify", s.FixturePath("audit", "defect"))

	audit := fixgold.NewAudit(op)
	var progress bytes.Buffer
	audit.Progress = &progress

	require.Empty(t, audit.Generate())

	// Defective cases are excluded from verify/bless runs.
	require.Empty(t, audit.Cases)

	require.Len(t, audit.Findings, 6)

	// Findings are sorted by path, so their order follows the fixture filenames.
	testkit_require.StringContains(t, audit.Findings[0].Path, "bad_golden.fixed.go")
	testkit_require.StringContains(t, audit.Findings[0].Msg, "golden file is not well-formed Go")

	testkit_require.StringContains(t, audit.Findings[1].Path, "bad_ignore.go")
	require.Exactly(t, 3, audit.Findings[1].Line)
	testkit_require.StringContains(t, audit.Findings[1].Msg, "malformed ignore directive")

	testkit_require.StringContains(t, audit.Findings[2].Path, "collide.go")
	testkit_require.StringContains(t, audit.Findings[2].Msg, "defined by both a file pair and an archive")

	testkit_require.StringContains(t, audit.Findings[3].Path, "no_golden_section.txt")
	testkit_require.StringContains(t, audit.Findings[3].Msg, "missing a [fixed.go] section")

	testkit_require.StringContains(t, audit.Findings[4].Path, "orphan_golden.fixed.go")
	testkit_require.StringContains(t, audit.Findings[4].Msg, "golden file has no input [unwrap/orphan_golden.go]")

	testkit_require.StringContains(t, audit.Findings[5].Path, "orphan_input.go")
	testkit_require.StringContains(t, audit.Findings[5].Msg, "input has no golden file [unwrap/orphan_input.fixed.go]")

	var printed bytes.Buffer
	audit.PrintFindings(&printed)
	for _, f := range audit.Findings {
		testkit_require.StringContains(t, printed.String(), f.String())
	}

	testkit_require.StringContains(t, progress.String(), "found 0 case(s), 6 finding(s)")
}

func (s *AuditSuite) TestFixturePathNarrowing() {
	t := s.T()

	op := s.CatOp("verify", s.FixturePath("audit", "ok"))
	op.FixturePath = fixgold.FilePathQuery{
		Include: []string{"unwrap/**"},
		Exclude: []string{"**/archived*"},
	}
	op.FixturePath.ResolveTo(op.FixtureDir)

	audit := s.MustGenerate(op)

	require.Len(t, audit.Cases, 1)
	require.Exactly(t, "unwrap/basic", audit.Cases[0].Name)
}

func (s *AuditSuite) TestMissingFixtureDir() {
	t := s.T()

	op := s.CatOp("verify", s.FixturePath("audit", "no_such_dir"))

	errs := fixgold.NewAudit(op).Generate()
	require.Len(t, errs, 1)
	testkit_require.StringContains(t, errs[0].Error(), "does not exist")
}
