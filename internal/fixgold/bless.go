// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"context"
	"io"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"

	cage_errors "github.com/codeactual/fixgold/internal/cage/errors"
	cage_file "github.com/codeactual/fixgold/internal/cage/os/file"
	cage_stage "github.com/codeactual/fixgold/internal/cage/os/file/stage"
	cage_strings "github.com/codeactual/fixgold/internal/cage/strings"
)

const (
	newDirMode = 0755
)

// Blesser regenerates an operation's golden files from current fixer output.
//
// New goldens are written to a staging tree first and only synced into the
// fixture corpus when every case's fixer run succeeded, so an interrupted or
// failed run never leaves a half-updated corpus.
type Blesser struct {
	Runner *Runner

	// Progress optionally receives per-case status messages.
	Progress io.Writer
}

// NewBlesser returns a new Blesser instance based on a generated Audit.
func NewBlesser(audit *Audit) *Blesser {
	return &Blesser{Runner: NewRunner(audit)}
}

// Run executes the fixer over all cases and syncs their outputs into the
// fixture corpus as the new golden files.
//
// The returned results describe the corpus before the bless: Mismatch marks a
// golden that was rewritten, Pass one that was already current. Results with
// FixerError cancel the sync as a whole.
func (b *Blesser) Run(ctx context.Context) (results []CaseResult, plan *cage_stage.Plan, errs []error) {
	op := b.Runner.Audit.Op
	b.Runner.Progress = b.Progress

	results, errs = b.Runner.Run(ctx)
	if len(errs) > 0 {
		return nil, nil, errs
	}

	for _, res := range results {
		if res.Verdict == FixerError {
			errs = append(errs, errors.Errorf("fixer failed on case [%s] (exit code %d), no golden files were written: %s",
				res.Case.Name, res.FixerCode, res.FixerStderr))
		}
	}
	if len(errs) > 0 {
		return results, nil, errs
	}

	stage, stageErr := cage_stage.NewTempDirStage("fixgold-bless")
	if stageErr != nil {
		return results, nil, []error{errors.WithStack(stageErr)}
	}
	defer func() {
		if removeErr := cage_file.RemoveAllSafer(stage.BasePath()); removeErr != nil {
			errs = append(errs, errors.WithStack(removeErr))
		}
	}()

	for _, res := range results {
		if res.Verdict == Pass {
			// Keep byte-identical goldens out of the stage so their mtimes survive.
			continue
		}

		relPath, relErr := filepath.Rel(op.FixtureDir, res.Case.GoldenPath)
		if relErr != nil {
			return results, nil, []error{errors.Wrapf(relErr, "failed to resolve [%s] relative to [%s]", res.Case.GoldenPath, op.FixtureDir)}
		}

		content := res.Actual
		if res.Case.Archive {
			// txtar stores sections newline-terminated, so an archive golden may
			// gain a trailing newline the raw fixer output lacked.
			raw, readErr := ioutil.ReadFile(res.Case.InputPath) // #nosec G304
			if readErr != nil {
				return results, nil, []error{errors.Wrapf(readErr, "failed to re-read archive [%s]", res.Case.InputPath)}
			}
			content = BlessedArchive(raw, res.Actual)
		}

		fd, createErr := stage.CreateFileAll(relPath, newFileMode, newDirMode)
		if createErr != nil {
			return results, nil, []error{errors.WithStack(createErr)}
		}

		if _, writeErr := fd.Write(content); writeErr != nil {
			return results, nil, []error{errors.Wrapf(writeErr, "failed to stage golden file [%s]", relPath)}
		}
	}

	if syncErrs := stage.Output(); len(syncErrs) > 0 {
		return results, nil, syncErrs
	}

	// Non-nil removable sets keep the sync additive: a bless only adds or
	// overwrites golden files, it never deletes from the corpus.
	plan, copyErrs := stage.Copy(op.FixtureDir, cage_stage.CopyConfig{
		RemovableDirs:  cage_strings.NewSet(),
		RemovableFiles: cage_strings.NewSet(),
		DryRun:         op.DryRun,
	})
	if len(copyErrs) > 0 {
		for _, err := range copyErrs {
			cage_errors.Append(&errs, errors.WithStack(err))
		}
		return results, plan, errs
	}

	return results, plan, errs
}
