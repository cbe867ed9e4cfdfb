// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"bytes"
	"crypto/sha256"
	"strings"

	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"

	cage_crypto "github.com/codeactual/fixgold/internal/cage/crypto"
)

// Verdict classifies the outcome of one case in a verify run.
type Verdict int

const (
	// Pass means the fixer output equaled the golden file byte-for-byte.
	Pass Verdict = iota

	// Mismatch means the fixer exited 0 but its output differed from the golden file.
	Mismatch

	// FixerError means the fixer could not be run or exited non-zero.
	FixerError
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Mismatch:
		return "mismatch"
	default:
		return "fixer error"
	}
}

// CaseResult describes the outcome of one case.
type CaseResult struct {
	Case Case

	Verdict Verdict

	// Actual holds the fixer's stdout. It is the content written during bless runs.
	Actual []byte

	// Diff is a line diff from golden to actual, empty unless Verdict is Mismatch.
	Diff string

	// FixerCode is the fixer's exit code, or -1 if it did not run.
	FixerCode int

	// FixerStderr holds the fixer's stderr, retained for FixerError output.
	FixerStderr string

	// Err is an Error() string for FixerError verdicts (e.g. start failure).
	Err string
}

// Compare produces the verdict for a fixer run which exited 0.
//
// Equality is decided by hash comparison first; the full diff is only computed
// for mismatches.
func Compare(c Case, actual []byte) (CaseResult, error) {
	res := CaseResult{Case: c, Actual: actual}

	same, _, err := cage_crypto.ReaderHashSumsEqual(sha256.New(), bytes.NewReader(c.Golden), bytes.NewReader(actual))
	if err != nil {
		return CaseResult{}, errors.Wrapf(err, "failed to compare output of case [%s]", c.Name)
	}

	if same {
		res.Verdict = Pass
		return res, nil
	}

	res.Verdict = Mismatch
	res.Diff = LineDiff(string(c.Golden), string(actual))
	return res, nil
}

// LineDiff renders a line-level diff from expected to actual.
//
// Lines only in the golden file are prefixed "-", lines only in the fixer
// output "+", common lines " ".
func LineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()

	// Line mode: map lines to runes so the diff never splits mid-line.
	expectedChars, actualChars, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffMain(expectedChars, actualChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var b strings.Builder

	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			prefix = " "
		}

		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(prefix + line + "\n")
		}
	}

	return b.String()
}
