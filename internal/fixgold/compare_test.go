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

	"github.com/codeactual/fixgold/internal/fixgold"
)

type CompareSuite struct {
	Suite
}

func TestCompareSuite(t *testing.T) {
	suite.Run(t, new(CompareSuite))
}

func (s *CompareSuite) TestPass() {
	t := s.T()

	c := fixgold.Case{Name: "unwrap/basic", Golden: []byte("package p\n")}

	res, err := fixgold.Compare(c, []byte("package p\n"))
	require.NoError(t, err)
	require.Exactly(t, fixgold.Pass, res.Verdict)
	require.Exactly(t, "", res.Diff)
}

func (s *CompareSuite) TestEmptyGolden() {
	t := s.T()

	res, err := fixgold.Compare(fixgold.Case{Name: "wrapcheck/delete_all"}, nil)
	require.NoError(t, err)
	require.Exactly(t, fixgold.Pass, res.Verdict)
}

func (s *CompareSuite) TestMismatch() {
	t := s.T()

	c := fixgold.Case{Name: "unwrap/basic", Golden: []byte("a\nb\nc\n")}

	res, err := fixgold.Compare(c, []byte("a\nx\nc\n"))
	require.NoError(t, err)
	require.Exactly(t, fixgold.Mismatch, res.Verdict)
	require.Exactly(t, " a\n-b\n+x\n c\n", res.Diff)
}

func (s *CompareSuite) TestTrailingNewlineMismatch() {
	t := s.T()

	// A missing final newline is still a byte difference.
	c := fixgold.Case{Name: "unwrap/basic", Golden: []byte("package p\n")}

	res, err := fixgold.Compare(c, []byte("package p"))
	require.NoError(t, err)
	require.Exactly(t, fixgold.Mismatch, res.Verdict)
}

func (s *CompareSuite) TestVerdictString() {
	t := s.T()

	require.Exactly(t, "pass", fixgold.Pass.String())
	require.Exactly(t, "mismatch", fixgold.Mismatch.String())
	require.Exactly(t, "fixer error", fixgold.FixerError.String())
}
