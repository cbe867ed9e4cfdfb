// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DirectiveKind discriminates the harness comment forms recognized in fixtures.
type DirectiveKind int

const (
	// DirectiveIgnore suppresses a rule for the annotated line:
	//   //fixgold:ignore <rule> <reason>
	DirectiveIgnore DirectiveKind = iota

	// DirectiveWant asserts a diagnostic message for the annotated line:
	//   // want "<message>"
	DirectiveWant
)

// Directive is one harness annotation parsed from a fixture input.
type Directive struct {
	Kind DirectiveKind

	// Rule is the rule ID named by an ignore directive.
	Rule string

	// Reason is the free-form justification of an ignore directive.
	Reason string

	// Msg is the quoted message of a want directive.
	Msg string

	// Line is the 1-based source line the directive annotates.
	Line int
}

const ignorePrefix = "fixgold:ignore"

var wantRe *regexp.Regexp

func init() {
	wantRe = regexp.MustCompile(`^want\s+(".*")$`)
}

// IsDirectiveText reports whether a single comment's text, including the "//" marker,
// is a harness directive. Block comments are never directives.
func IsDirectiveText(text string) bool {
	if !strings.HasPrefix(text, "//") {
		return false
	}
	body := strings.TrimSpace(strings.TrimPrefix(text, "//"))
	return strings.HasPrefix(body, ignorePrefix) || wantRe.MatchString(body)
}

// isDirectiveCandidate reports whether the comment should parse as a directive,
// i.e. IsDirectiveText plus malformed variants that must become findings.
func isDirectiveCandidate(text string) bool {
	if !strings.HasPrefix(text, "//") {
		return false
	}
	body := strings.TrimSpace(strings.TrimPrefix(text, "//"))
	return strings.HasPrefix(body, "fixgold:") || strings.HasPrefix(body, "want ")
}

// ParseDirectives extracts harness directives from fixture source.
//
// Malformed directives are returned as findings rather than errors so an audit
// can report every defect in one pass. The returned error covers syntax errors
// in the source itself.
func ParseDirectives(name string, src []byte) (ds []Directive, findings []Finding, err error) {
	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, name, src, parser.ParseComments)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse fixture [%s]", name)
	}

	for _, group := range f.Comments {
		for _, comment := range group.List {
			if !isDirectiveCandidate(comment.Text) {
				continue
			}

			line := fset.Position(comment.Pos()).Line
			body := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))

			switch {
			case strings.HasPrefix(body, "fixgold:"):
				d, parseErr := parseIgnore(body, line)
				if parseErr != nil {
					findings = append(findings, Finding{
						Path: name,
						Line: line,
						Msg:  parseErr.Error(),
					})
					continue
				}
				ds = append(ds, d)
			default: // "want "
				m := wantRe.FindStringSubmatch(body)
				if m == nil {
					findings = append(findings, Finding{
						Path: name,
						Line: line,
						Msg:  "malformed want directive, expected: want \"<message>\"",
					})
					continue
				}
				msg, unquoteErr := strconv.Unquote(m[1])
				if unquoteErr != nil {
					findings = append(findings, Finding{
						Path: name,
						Line: line,
						Msg:  "malformed want directive, message is not a valid quoted string",
					})
					continue
				}
				ds = append(ds, Directive{Kind: DirectiveWant, Msg: msg, Line: line})
			}
		}
	}

	return ds, findings, nil
}

func parseIgnore(body string, line int) (Directive, error) {
	if !strings.HasPrefix(body, ignorePrefix) {
		return Directive{}, errors.Errorf("unknown fixgold directive, expected: %s <rule> <reason>", ignorePrefix)
	}

	rest := strings.TrimPrefix(body, ignorePrefix)
	if rest != "" && !strings.HasPrefix(rest, " ") {
		// e.g. "fixgold:ignoreXYZ"
		return Directive{}, errors.Errorf("unknown fixgold directive, expected: %s <rule> <reason>", ignorePrefix)
	}

	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return Directive{}, errors.Errorf("malformed ignore directive, expected: %s <rule> <reason>", ignorePrefix)
	}

	return Directive{
		Kind:   DirectiveIgnore,
		Rule:   fields[0],
		Reason: strings.Join(fields[1:], " "),
		Line:   line,
	}, nil
}
