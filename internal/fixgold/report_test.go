// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	testkit_file "github.com/codeactual/fixgold/internal/cage/testkit/os/file"
	testkit_require "github.com/codeactual/fixgold/internal/cage/testkit/testify/require"
	"github.com/codeactual/fixgold/internal/fixgold"
)

type ReportSuite struct {
	Suite
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportSuite))
}

func (s *ReportSuite) newReport() *fixgold.Report {
	audit := fixgold.NewAudit(fixgold.Op{Id: "verify"})
	audit.Findings = []fixgold.Finding{
		{Path: "/corpus/unwrap/orphan.go", Msg: "input has no golden file [unwrap/orphan.fixed.go]"},
	}

	results := []fixgold.CaseResult{
		{Case: fixgold.Case{Name: "unwrap/basic"}, Verdict: fixgold.Pass},
		{Case: fixgold.Case{Name: "unwrap/stale"}, Verdict: fixgold.Mismatch},
		{Case: fixgold.Case{Name: "unwrap/broken"}, Verdict: fixgold.FixerError, FixerCode: 3, Err: "exit status 3"},
	}

	return fixgold.NewReport(audit, results)
}

func (s *ReportSuite) TestNewReport() {
	t := s.T()

	r := s.newReport()

	require.Exactly(t, "verify", r.Op)
	testkit_require.StringSliceExactly(t, []string{"unwrap/basic"}, r.Pass)
	testkit_require.StringSliceExactly(t, []string{"unwrap/stale"}, r.Mismatch)

	require.Len(t, r.FixerError, 1)
	require.Exactly(t, fixgold.CaseError{Name: "unwrap/broken", Code: 3, Err: "exit status 3"}, r.FixerError[0])

	require.Len(t, r.Finding, 1)
	testkit_require.StringContains(t, r.Finding[0], "input has no golden file")
}

func (s *ReportSuite) TestString() {
	t := s.T()

	str := s.newReport().String()

	testkit_require.StringContains(t, str,
		"Pass:\n\tunwrap/basic\n",
		"Mismatch:\n\tunwrap/stale\n",
		"FixerError:\n\tunwrap/broken (exit code 3): exit status 3\n",
	)
	require.NotContains(t, str, "No cases were")

	onlyPass := fixgold.NewReport(
		fixgold.NewAudit(fixgold.Op{Id: "verify"}),
		[]fixgold.CaseResult{{Case: fixgold.Case{Name: "unwrap/basic"}, Verdict: fixgold.Pass}},
	)
	testkit_require.StringContains(t, onlyPass.String(), "No cases were: defective, failing, mismatched\n")
}

func (s *ReportSuite) TestWriteFile() {
	t := s.T()

	testkit_file.ResetTestdata(t)

	r := s.newReport()

	_, yamlName := testkit_file.CreatePath(t, "report.yml")
	require.NoError(t, r.WriteFile(yamlName))
	testkit_require.FileStringContains(t, yamlName, "Op: verify", "unwrap/basic", "unwrap/stale")

	_, jsonName := testkit_file.CreatePath(t, "report.json")
	require.NoError(t, r.WriteFile(jsonName))
	testkit_require.FileStringContains(t, jsonName, `"Op": "verify"`, `"unwrap/broken"`)

	_, tomlName := testkit_file.CreatePath(t, "report.toml")
	require.NoError(t, r.WriteFile(tomlName))
	testkit_require.FileStringContains(t, tomlName, "unwrap/basic")
}
