// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	cage_file "github.com/codeactual/fixgold/internal/cage/os/file"
	cage_file_matcher "github.com/codeactual/fixgold/internal/cage/os/file/matcher"
	cage_filepath "github.com/codeactual/fixgold/internal/cage/path/filepath"
)

// Finding is one fixture hygiene defect detected during an audit.
//
// Findings are collected instead of returned as errors so one audit pass can
// report every defect in the corpus.
type Finding struct {
	// Path is the absolute path of the defective file.
	Path string

	// Line is the 1-based line of the defect, or 0 when it concerns the whole file.
	Line int

	// Msg describes the defect.
	Msg string
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", f.Path, f.Line, f.Msg)
	}
	return fmt.Sprintf("%s: %s", f.Path, f.Msg)
}

// Audit discovers an operation's fixture cases and their hygiene defects.
//
// Verify and bless operations are built on the audit result and refuse to run
// over a corpus with findings.
type Audit struct {
	Op Op

	// Progress optionally receives status messages during Generate.
	Progress io.Writer

	// Cases holds all discovered cases, sorted by name, after Generate.
	Cases []Case

	// Findings holds all hygiene defects, sorted by path, after Generate.
	Findings []Finding
}

// NewAudit returns a new Audit instance for a finalized Op, e.g. from Config.ReadFile.
func NewAudit(op Op) *Audit {
	return &Audit{Op: op}
}

func (a *Audit) progressf(format string, v ...interface{}) {
	if a.Progress != nil {
		fmt.Fprintf(a.Progress, format+"\n", v...)
	}
}

// Generate walks Op.FixtureDir and populates Cases and Findings.
//
// Returned errors are environmental, e.g. an unreadable tree. Corpus defects
// are findings, not errors.
func (a *Audit) Generate() (errs []error) {
	exists, fi, err := cage_file.Exists(a.Op.FixtureDir)
	if err != nil {
		return []error{errors.WithStack(err)}
	}
	if !exists {
		return []error{errors.Errorf("fixture dir [%s] does not exist", a.Op.FixtureDir)}
	}
	if !fi.IsDir() {
		return []error{errors.Errorf("fixture dir [%s] is not a directory", a.Op.FixtureDir)}
	}

	a.progressf("audit: scanning [%s] ...", a.Op.FixtureDir)

	finder := cage_file.NewFinder().
		Dir(a.Op.FixtureDir).
		DirMatcher(cage_file_matcher.DirWithFile)

	names, err := finder.GetFilenameMatches(cage_file_matcher.MatchAnyFile(cage_filepath.MatchAnyInput{
		Include: a.Op.FixturePath.Include,
		Exclude: a.Op.FixturePath.Exclude,
	}))
	if err != nil {
		return []error{errors.Wrapf(err, "failed to scan fixture dir [%s]", a.Op.FixtureDir)}
	}

	// Classify every discovered file. Golden is matched before Input because the
	// default golden suffix ".fixed.go" also ends in the default input suffix ".go".

	inputPaths := make(map[string]string)  // case name -> absolute path
	goldenPaths := make(map[string]string) // case name -> absolute path

	var archiveNames []string
	archivePaths := make(map[string]string) // case name -> absolute path

	for _, absPath := range names.SortedSlice() {
		relPath, relErr := filepath.Rel(a.Op.FixtureDir, absPath)
		if relErr != nil {
			return []error{errors.Wrapf(relErr, "failed to resolve [%s] relative to [%s]", absPath, a.Op.FixtureDir)}
		}

		base := filepath.Base(absPath)

		switch {
		case strings.HasSuffix(base, a.Op.Ext.Golden):
			goldenPaths[CaseName(relPath, a.Op.Ext.Golden)] = absPath
		case strings.HasSuffix(base, a.Op.Ext.Input):
			inputPaths[CaseName(relPath, a.Op.Ext.Input)] = absPath
		case strings.HasSuffix(base, a.Op.Ext.Archive):
			name := CaseName(relPath, a.Op.Ext.Archive)
			archiveNames = append(archiveNames, name)
			archivePaths[name] = absPath
		}
	}

	// Pair inputs with goldens, then detect orphans and name collisions.

	for name, inputPath := range inputPaths {
		goldenPath, ok := goldenPaths[name]
		if !ok {
			a.Findings = append(a.Findings, Finding{
				Path: inputPath,
				Msg:  fmt.Sprintf("input has no golden file [%s%s]", name, a.Op.Ext.Golden),
			})
			continue
		}

		if _, collision := archivePaths[name]; collision {
			a.Findings = append(a.Findings, Finding{
				Path: inputPath,
				Msg:  fmt.Sprintf("case [%s] is defined by both a file pair and an archive [%s]", name, archivePaths[name]),
			})
			continue
		}

		c, caseErrs := a.loadPairCase(name, inputPath, goldenPath)
		if len(caseErrs) > 0 {
			return caseErrs
		}
		a.Cases = append(a.Cases, c)
	}

	for name, goldenPath := range goldenPaths {
		if _, ok := inputPaths[name]; !ok {
			a.Findings = append(a.Findings, Finding{
				Path: goldenPath,
				Msg:  fmt.Sprintf("golden file has no input [%s%s]", name, a.Op.Ext.Input),
			})
		}
	}

	for _, name := range archiveNames {
		if _, collision := inputPaths[name]; collision {
			continue // finding already collected during pairing
		}

		c, caseErrs := a.loadArchiveCase(name, archivePaths[name])
		if len(caseErrs) > 0 {
			return caseErrs
		}
		if c.Name == "" { // malformed archive, finding collected
			continue
		}
		a.Cases = append(a.Cases, c)
	}

	// Inspect every case's contents.

	validCases := a.Cases[:0]
	for _, c := range a.Cases {
		if a.inspectCase(&c) {
			validCases = append(validCases, c)
		}
	}
	a.Cases = validCases

	sort.Slice(a.Cases, func(i, j int) bool { return a.Cases[i].Name < a.Cases[j].Name })
	sort.Slice(a.Findings, func(i, j int) bool {
		if a.Findings[i].Path == a.Findings[j].Path {
			return a.Findings[i].Line < a.Findings[j].Line
		}
		return a.Findings[i].Path < a.Findings[j].Path
	})

	a.progressf("audit: found %d case(s), %d finding(s)", len(a.Cases), len(a.Findings))

	return nil
}

// Case returns the named case, e.g. for single-case "why" runs.
func (a *Audit) Case(name string) (Case, bool) {
	for _, c := range a.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// PrintFindings writes one line per finding.
func (a *Audit) PrintFindings(w io.Writer) {
	for _, f := range a.Findings {
		fmt.Fprintln(w, f.String())
	}
}

func (a *Audit) loadPairCase(name, inputPath, goldenPath string) (c Case, errs []error) {
	input, err := ioutil.ReadFile(inputPath) // #nosec G304
	if err != nil {
		return Case{}, []error{errors.Wrapf(err, "failed to read input [%s]", inputPath)}
	}

	golden, err := ioutil.ReadFile(goldenPath) // #nosec G304
	if err != nil {
		return Case{}, []error{errors.Wrapf(err, "failed to read golden file [%s]", goldenPath)}
	}

	return Case{
		Name:       name,
		Rule:       RuleOfName(name),
		InputPath:  inputPath,
		GoldenPath: goldenPath,
		Input:      input,
		Golden:     golden,
	}, nil
}

func (a *Audit) loadArchiveCase(name, absPath string) (c Case, errs []error) {
	content, err := ioutil.ReadFile(absPath) // #nosec G304
	if err != nil {
		return Case{}, []error{errors.Wrapf(err, "failed to read archive [%s]", absPath)}
	}

	c, newErr := NewArchiveCase(name, absPath, content)
	if newErr != nil {
		a.Findings = append(a.Findings, Finding{Path: absPath, Msg: newErr.Error()})
		return Case{}, nil
	}

	return c, nil
}

// inspectCase parses the case contents and collects its directives.
//
// It returns false if the case must be excluded from verify/bless runs.
func (a *Audit) inspectCase(c *Case) bool {
	ds, findings, err := ParseDirectives(c.InputPath, c.Input)
	if err != nil {
		a.Findings = append(a.Findings, Finding{Path: c.InputPath, Msg: err.Error()})
		return false
	}

	ok := len(findings) == 0
	a.Findings = append(a.Findings, findings...)
	c.Directives = ds

	// An empty golden is legal: the fix may delete the file's entire content.
	if len(c.Golden) > 0 {
		fset := token.NewFileSet()
		if _, parseErr := parser.ParseFile(fset, c.GoldenPath, c.Golden, parser.ParseComments); parseErr != nil {
			a.Findings = append(a.Findings, Finding{
				Path: c.GoldenPath,
				Msg:  errors.Wrap(parseErr, "golden file is not well-formed Go").Error(),
			})
			ok = false
		}
	}

	return ok
}
