// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	cage_strings "github.com/codeactual/fixgold/internal/cage/strings"
)

// CaseError describes a fixer failure on a specific case, collected for
// inclusion in a Report instead of propagating down the stack.
type CaseError struct {
	// Name is the case name.
	Name string

	// Code is the fixer's exit code.
	Code int

	// Err is an Error() string.
	Err string
}

// Report is written to a file selected by the --report CLI flag.
type Report struct {
	// Op is the operation ID the report describes.
	Op string `yaml:"Op"`

	// Pass holds the names of all cases whose fixer output equaled the golden file.
	Pass []string `json:",omitempty" toml:",omitempty" yaml:"Pass,omitempty"`

	// Mismatch holds the names of all cases whose fixer output differed.
	//
	// During bless runs it holds the cases whose golden files were rewritten.
	Mismatch []string `json:",omitempty" toml:",omitempty" yaml:"Mismatch,omitempty"`

	// FixerError describes the cases on which the fixer could not run or exited non-zero.
	FixerError []CaseError `json:",omitempty" toml:",omitempty" yaml:"FixerError,omitempty"`

	// Finding holds one line per fixture hygiene defect found by the audit.
	Finding []string `json:",omitempty" toml:",omitempty" yaml:"Finding,omitempty"`

	// Blessed holds the absolute paths of all golden files added or overwritten by a bless run.
	Blessed []string `json:",omitempty" toml:",omitempty" yaml:"Blessed,omitempty"`

	// DryRun is true if a bless run only reported the golden files it would write.
	DryRun bool `yaml:"DryRun"`
}

// NewReport indexes verify/bless results and audit findings by outcome.
func NewReport(audit *Audit, results []CaseResult) *Report {
	r := &Report{Op: audit.Op.Id, DryRun: audit.Op.DryRun}

	for _, f := range audit.Findings {
		r.Finding = append(r.Finding, f.String())
	}

	for _, res := range results {
		switch res.Verdict {
		case Pass:
			r.Pass = append(r.Pass, res.Case.Name)
		case Mismatch:
			r.Mismatch = append(r.Mismatch, res.Case.Name)
		case FixerError:
			r.FixerError = append(r.FixerError, CaseError{
				Name: res.Case.Name,
				Code: res.FixerCode,
				Err:  res.Err,
			})
		}
	}

	return r
}

func (r *Report) String() string {
	var b strings.Builder

	unusedOutcomes := cage_strings.NewSet()

	writeSection := func(title, adjective string, items []string) {
		_, _ = b.WriteString("---\n")
		if len(items) > 0 {
			_, _ = b.WriteString(title + ":\n")
			for _, v := range items {
				_, _ = b.WriteString("\t" + v + "\n")
			}
		} else {
			unusedOutcomes.Add(adjective)
		}
	}

	writeSection("Pass", "passing", r.Pass)
	writeSection("Mismatch", "mismatched", r.Mismatch)
	writeSection("Finding", "defective", r.Finding)

	var fixerErrStrings []string
	for _, e := range r.FixerError {
		fixerErrStrings = append(fixerErrStrings, fmt.Sprintf("%s (exit code %d): %s", e.Name, e.Code, e.Err))
	}
	writeSection("FixerError", "failing", fixerErrStrings)

	if unusedOutcomes.Len() > 0 {
		_, _ = b.WriteString("---\n")
		b.WriteString(fmt.Sprintf("No cases were: %s\n", strings.Join(unusedOutcomes.SortedSlice(), ", ")))
	}

	return b.String()
}

// WriteFile marshals the report based on the name's extension:
// JSON for ".json", TOML for ".toml", YAML otherwise.
func (r *Report) WriteFile(name string) (err error) {
	var fileBytes []byte

	switch filepath.Ext(name) {
	case ".json":
		fileBytes, err = json.MarshalIndent(r, "", "  ")
	case ".toml":
		fileBytes, err = toml.Marshal(*r)
	default:
		fileBytes, err = yaml.Marshal(r)
	}

	if err != nil {
		return errors.Wrap(err, "failed to marshal Report")
	}

	if err = ioutil.WriteFile(name, fileBytes, newFileMode); err != nil {
		return errors.Wrapf(err, "failed to write Report to file [%s]", name)
	}

	return nil
}
