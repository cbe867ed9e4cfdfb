// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"sync"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	cage_exec "github.com/codeactual/fixgold/internal/cage/os/exec"
	cage_file "github.com/codeactual/fixgold/internal/cage/os/file"
	cage_filepath "github.com/codeactual/fixgold/internal/cage/path/filepath"
)

// fixerVersionRe matches the semver part of a fixer's version output.
// Requires FindString or other function that only returns the leftmost match.
var fixerVersionRe *regexp.Regexp

func init() {
	fixerVersionRe = regexp.MustCompile(`[0-9]+\.[0-9]+(\.[0-9]+)?`)
}

// Runner executes an operation's fixer over every audited case and compares
// the output against the golden files.
type Runner struct {
	// Audit must have generated without findings.
	Audit *Audit

	// Progress optionally receives per-case status messages.
	Progress io.Writer

	// Executor runs the fixer processes. Tests may replace it.
	Executor cage_exec.Executor
}

// NewRunner returns a new Runner instance based on a generated Audit.
func NewRunner(audit *Audit) *Runner {
	return &Runner{
		Audit:    audit,
		Executor: cage_exec.CommonExecutor{},
	}
}

func (r *Runner) progressf(format string, v ...interface{}) {
	if r.Progress != nil {
		fmt.Fprintf(r.Progress, format+"\n", v...)
	}
}

// FixerVersion queries the fixer's version via Op.Fixer.VersionArg.
func (r *Runner) FixerVersion(ctx context.Context) (string, error) {
	op := r.Audit.Op

	cmd := r.Executor.CommandContext(ctx, op.Fixer.Cmd[0], op.Fixer.VersionArg)
	stdout, stderr, _, err := r.Executor.Buffered(ctx, cmd)
	if err != nil {
		return "", errors.Wrapf(err, "failed to query fixer version [%s %s]: %s", op.Fixer.Cmd[0], op.Fixer.VersionArg, stderr.String())
	}

	v := fixerVersionRe.FindString(stdout.String())
	if v == "" {
		return "", errors.Errorf("failed to find a version in fixer output [%s]", stdout.String())
	}

	return v, nil
}

// checkFixerVersion enforces Op.Fixer.MinVersion before any case runs.
func (r *Runner) checkFixerVersion(ctx context.Context) error {
	op := r.Audit.Op

	if op.Fixer.MinVersion == "" {
		return nil
	}

	cStr := ">= " + op.Fixer.MinVersion
	c, err := semver.NewConstraint(cStr)
	if err != nil {
		return errors.Wrapf(err, "failed to create new constraint from string [%s]", cStr)
	}

	vStr, err := r.FixerVersion(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	v, err := semver.NewVersion(vStr)
	if err != nil {
		return errors.Wrapf(err, "failed to parse fixer version [%s]", vStr)
	}

	if !c.Check(v) {
		return errors.Errorf("fixer version [%s] does not satisfy the corpus requirement [%s]", vStr, cStr)
	}

	return nil
}

// Run executes the fixer once per case, up to Op.MaxParallel at a time, and
// returns the results sorted by case name.
//
// Fixer failures are per-case FixerError results, not errors. Returned errors
// are environmental, e.g. a version gate failure or unwritable temp dir.
func (r *Runner) Run(ctx context.Context) (results []CaseResult, errs []error) {
	op := r.Audit.Op

	if len(r.Audit.Findings) > 0 {
		return nil, []error{errors.Errorf("operation [%s] has %d fixture finding(s), audit the corpus first", op.Id, len(r.Audit.Findings))}
	}

	if err := r.checkFixerVersion(ctx); err != nil {
		return nil, []error{errors.WithStack(err)}
	}

	// Any InputPlaceholder argv element needs the stripped inputs on disk.

	var tempDir string
	if fixerWantsFile(op.Fixer) {
		var tempErr error
		tempDir, tempErr = ioutil.TempDir("", "fixgold-input")
		if tempErr != nil {
			return nil, []error{errors.Wrap(tempErr, "failed to create temp dir for fixer inputs")}
		}
		defer func() {
			if removeErr := cage_file.RemoveAllSafer(tempDir); removeErr != nil {
				errs = append(errs, errors.WithStack(removeErr))
			}
		}()
	}

	maxParallel := op.MaxParallel
	if maxParallel == 0 {
		maxParallel = runtime.NumCPU()
	}

	var mu sync.Mutex
	sem := make(chan struct{}, maxParallel)

	g, gCtx := errgroup.WithContext(ctx)

	for _, c := range r.Audit.Cases {
		c := c
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gCtx.Done():
				return gCtx.Err()
			}
			defer func() { <-sem }()

			res, caseErr := r.runCase(gCtx, c, tempDir)
			if caseErr != nil {
				return errors.WithStack(caseErr)
			}

			r.progressf("%s: %s [%s]", op.Id, res.Verdict, c.Name)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	if waitErr := g.Wait(); waitErr != nil {
		errs = append(errs, errors.WithStack(waitErr))
		return nil, errs
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Case.Name < results[j].Case.Name })

	return results, errs
}

// runCase strips one case's input, runs the fixer, and compares the output.
func (r *Runner) runCase(ctx context.Context, c Case, tempDir string) (CaseResult, error) {
	op := r.Audit.Op

	input, err := StripDirectives(c.InputPath, c.Input)
	if err != nil {
		return CaseResult{}, errors.WithStack(err)
	}

	argv := make([]string, len(op.Fixer.Cmd))
	copy(argv, op.Fixer.Cmd)

	var stdin io.Reader = bytes.NewReader(input)

	for n, arg := range argv {
		if arg != InputPlaceholder {
			continue
		}

		inputPath := filepath.Join(tempDir, cage_filepath.PathToSafeFilename(c.Name)+op.Ext.Input)
		if writeErr := ioutil.WriteFile(inputPath, input, newFileMode); writeErr != nil {
			return CaseResult{}, errors.Wrapf(writeErr, "failed to write fixer input for case [%s]", c.Name)
		}

		argv[n] = inputPath
		stdin = nil
	}

	var stdout, stderr bytes.Buffer

	cmd := r.Executor.CommandContext(ctx, argv[0], argv[1:]...)
	pipeRes, runErr := r.Executor.Standard(ctx, &stdout, &stderr, stdin, cmd)

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return CaseResult{}, errors.WithStack(ctxErr)
		}

		// A failed fixer is a verdict, not a harness error.
		return CaseResult{
			Case:        c,
			Verdict:     FixerError,
			FixerCode:   pipeRes.Cmd[cmd].Code,
			FixerStderr: stderr.String(),
			Err:         runErr.Error(),
		}, nil
	}

	res, cmpErr := Compare(c, stdout.Bytes())
	if cmpErr != nil {
		return CaseResult{}, errors.WithStack(cmpErr)
	}

	res.FixerCode = pipeRes.Cmd[cmd].Code
	res.FixerStderr = stderr.String()

	return res, nil
}

func fixerWantsFile(f Fixer) bool {
	for _, arg := range f.Cmd {
		if arg == InputPlaceholder {
			return true
		}
	}
	return false
}
