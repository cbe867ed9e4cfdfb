// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/txtar"
)

const (
	// ArchiveInputName is the txtar section holding a case's fixer input.
	ArchiveInputName = "input.go"

	// ArchiveGoldenName is the txtar section holding a case's expected output.
	ArchiveGoldenName = "fixed.go"
)

// Case is one fixture pair: a fixer input and the golden file its output must
// equal byte-for-byte.
type Case struct {
	// Name identifies the case within the operation, e.g. "unwrap/basic".
	//
	// It is the input's path relative to Op.FixtureDir without the input/archive suffix.
	Name string

	// Rule is the first element of Name, by convention the lint rule under test.
	Rule string

	// InputPath is the absolute path of the input file, or of the archive for txtar cases.
	InputPath string

	// GoldenPath is the absolute path of the golden file. It equals InputPath for txtar cases.
	GoldenPath string

	// Archive is true if the case is stored as a single txtar file.
	Archive bool

	// Input holds the input bytes with harness directives intact.
	Input []byte

	// Golden holds the expected fixer output.
	Golden []byte

	// Directives holds the harness directives parsed from Input.
	Directives []Directive
}

// CaseName derives a case name from a path relative to the fixture root.
func CaseName(relPath, suffix string) string {
	return filepath.ToSlash(strings.TrimSuffix(relPath, suffix))
}

// RuleOfName returns the leading path element of a case name, or "" for
// cases stored at the fixture root.
func RuleOfName(name string) string {
	if idx := strings.Index(name, "/"); idx != -1 {
		return name[:idx]
	}
	return ""
}

// NewArchiveCase reads a txtar fixture's input/golden sections.
//
// All other sections are ignored so corpora can carry notes, companion files, etc.
func NewArchiveCase(name, absPath string, content []byte) (c Case, err error) {
	c = Case{
		Name:       name,
		Rule:       RuleOfName(name),
		InputPath:  absPath,
		GoldenPath: absPath,
		Archive:    true,
	}

	arc := txtar.Parse(content)

	var foundInput, foundGolden bool
	for _, f := range arc.Files {
		switch f.Name {
		case ArchiveInputName:
			c.Input = f.Data
			foundInput = true
		case ArchiveGoldenName:
			c.Golden = f.Data
			foundGolden = true
		}
	}

	if !foundInput {
		return Case{}, errors.Errorf("archive [%s] is missing a [%s] section", absPath, ArchiveInputName)
	}
	if !foundGolden {
		return Case{}, errors.Errorf("archive [%s] is missing a [%s] section", absPath, ArchiveGoldenName)
	}

	return c, nil
}

// BlessedArchive returns the archive bytes with the golden section replaced by
// the fixer output, leaving all other sections as found on disk.
func BlessedArchive(content, golden []byte) []byte {
	arc := txtar.Parse(content)
	for n, f := range arc.Files {
		if f.Name == ArchiveGoldenName {
			arc.Files[n].Data = golden
		}
	}
	return txtar.Format(arc)
}
