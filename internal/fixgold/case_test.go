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

	testkit_require "github.com/codeactual/fixgold/internal/cage/testkit/testify/require"
	"github.com/codeactual/fixgold/internal/fixgold"
)

type CaseSuite struct {
	Suite
}

func TestCaseSuite(t *testing.T) {
	suite.Run(t, new(CaseSuite))
}

func (s *CaseSuite) TestCaseName() {
	t := s.T()

	require.Exactly(t, "unwrap/basic", fixgold.CaseName("unwrap/basic.go", ".go"))
	require.Exactly(t, "basic", fixgold.CaseName("basic.fixed.go", ".fixed.go"))
}

func (s *CaseSuite) TestRuleOfName() {
	t := s.T()

	require.Exactly(t, "unwrap", fixgold.RuleOfName("unwrap/basic"))
	require.Exactly(t, "unwrap", fixgold.RuleOfName("unwrap/nested/basic"))
	require.Exactly(t, "", fixgold.RuleOfName("rootcase"))
}

func (s *CaseSuite) TestNewArchiveCase() {
	t := s.T()

	content := []byte(`Free-form notes.

-- input.go --
package p

var n = ((1))
-- fixed.go --
package p

var n = 1
-- companion.txt --
ignored by the harness
`)

	c, err := fixgold.NewArchiveCase("unwrap/arch", "/abs/unwrap/arch.txt", content)
	require.NoError(t, err)

	require.Exactly(t, "unwrap/arch", c.Name)
	require.Exactly(t, "unwrap", c.Rule)
	require.True(t, c.Archive)
	require.Exactly(t, "/abs/unwrap/arch.txt", c.InputPath)
	require.Exactly(t, "/abs/unwrap/arch.txt", c.GoldenPath)
	require.Exactly(t, "package p\n\nvar n = ((1))\n", string(c.Input))
	require.Exactly(t, "package p\n\nvar n = 1\n", string(c.Golden))
}

func (s *CaseSuite) TestNewArchiveCaseMissingSection() {
	t := s.T()

	_, err := fixgold.NewArchiveCase("unwrap/arch", "/abs/arch.txt", []byte("-- input.go --\npackage p\n"))
	require.Error(t, err)
	testkit_require.StringContains(t, err.Error(), "missing a [fixed.go] section")

	_, err = fixgold.NewArchiveCase("unwrap/arch", "/abs/arch.txt", []byte("-- fixed.go --\npackage p\n"))
	require.Error(t, err)
	testkit_require.StringContains(t, err.Error(), "missing a [input.go] section")
}

func (s *CaseSuite) TestBlessedArchive() {
	t := s.T()

	content := []byte(`notes survive a bless
-- input.go --
package p

var n = ((1))
-- fixed.go --
stale
-- companion.txt --
also survives
`)

	blessed := string(fixgold.BlessedArchive(content, []byte("package p\n\nvar n = 1\n")))

	testkit_require.StringContains(t, blessed, "notes survive a bless")
	testkit_require.StringContains(t, blessed, "-- fixed.go --\npackage p\n\nvar n = 1\n")
	testkit_require.StringContains(t, blessed, "also survives")
	require.NotContains(t, blessed, "stale")
}
