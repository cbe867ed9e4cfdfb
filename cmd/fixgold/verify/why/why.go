// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package why

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/codeactual/fixgold/internal/cage/cli/handler"
	handler_cobra "github.com/codeactual/fixgold/internal/cage/cli/handler/cobra"
	log_zap "github.com/codeactual/fixgold/internal/cage/cli/handler/mixin/log/zap"
	cage_errors "github.com/codeactual/fixgold/internal/cage/errors"
	cage_reflect "github.com/codeactual/fixgold/internal/cage/reflect"
	"github.com/codeactual/fixgold/internal/fixgold"
)

const exampleText = "fixgold verify why --config fixgold.yml --op unwrap unwrap/basic"

// Handler defines the sub-command flags and logic.
type Handler struct {
	handler.Session

	ConfigFile string `usage:"configuration file (.json/.toml/.yaml/.yml)"`
	Op         string `usage:"Ops.Id value from the config file"`

	Log *log_zap.Mixin

	config fixgold.Config
}

// Init defines the command, its environment variable prefix, etc.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) Init() handler_cobra.Init {
	h.Log = &log_zap.Mixin{}

	return handler_cobra.Init{
		Cmd: &cobra.Command{
			Use:     "why",
			Short:   "Explain one case: the fixer input, argv, and golden diff",
			Example: exampleText,
		},
		EnvPrefix: "FIXGOLD",
		Mixins: []handler.Mixin{
			h.Log,
		},
	}
}

// BindFlags binds the flags to Handler fields.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) BindFlags(cmd *cobra.Command) []string {
	cmd.Flags().StringVarP(&h.ConfigFile, "config", "", "", cage_reflect.GetFieldTag(*h, "ConfigFile", "usage"))
	cmd.Flags().StringVarP(&h.Op, "op", "", "", cage_reflect.GetFieldTag(*h, "Op", "usage"))
	return []string{"op"}
}

// Run performs the sub-command logic.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) Run(ctx context.Context, input handler.Input) {
	errs := h.config.ReadFile(h.ConfigFile, h.Op)
	errsLen := len(errs)
	if errsLen > 0 {
		errs = append(errs, errors.Errorf("config file contains %d issue(s), canceled [%s] operation", errsLen, h.Op))
		cage_errors.WriteErrList(h.Err(), errs...)
		h.Log.ErrToFile(errs...)
		os.Exit(1)
	}

	op, ok := h.config.Ops[h.Op]
	if !ok {
		h.Log.ExitOnErr(1, errors.Errorf("config file [%s] does not contain operation [%s]", h.ConfigFile, h.Op))
		return
	}

	if len(input.Args) == 0 || input.Args[0] == "" {
		h.Exitf(1, "missing case name argument, example: "+exampleText)
		return
	}
	caseName := input.Args[0]

	audit := fixgold.NewAudit(op)
	errs = audit.Generate()
	h.Log.ExitOnErr(1, errs...)

	if len(audit.Findings) > 0 {
		audit.PrintFindings(h.Err())
		h.Log.ExitOnErr(1, errors.Errorf("operation [%s] found %d fixture defect(s)", h.Op, len(audit.Findings)))
		return
	}

	c, found := audit.Case(caseName)
	if !found {
		var caseList string
		for _, known := range audit.Cases {
			caseList += "\n\t" + known.Name
		}
		fmt.Fprintf(h.Err(), "available cases:%s\n", caseList)
		h.Log.ExitOnErr(1, errors.Errorf("operation [%s] does not contain case [%s]", h.Op, caseName))
		return
	}

	stripped, stripErr := fixgold.StripDirectives(c.InputPath, c.Input)
	h.Log.ExitOnErr(1, stripErr)

	fmt.Fprintf(h.Out(), "case [%s]\ninput [%s]\ngolden [%s]\nfixer argv [%s]\n", c.Name, c.InputPath, c.GoldenPath, strings.Join(op.Fixer.Cmd, " "))

	for _, d := range c.Directives {
		switch d.Kind {
		case fixgold.DirectiveIgnore:
			fmt.Fprintf(h.Out(), "directive: line %d ignores rule [%s]: %s\n", d.Line, d.Rule, d.Reason)
		case fixgold.DirectiveWant:
			fmt.Fprintf(h.Out(), "directive: line %d wants diagnostic [%s]\n", d.Line, d.Msg)
		}
	}

	fmt.Fprintf(h.Out(), "--- fixer input (directives stripped)\n%s", stripped)

	audit.Cases = []fixgold.Case{c} // limit the run to the selected case

	runner := fixgold.NewRunner(audit)
	results, errs := runner.Run(ctx)
	h.Log.ExitOnErr(1, errs...)

	for _, res := range results {
		switch res.Verdict {
		case fixgold.Pass:
			fmt.Fprintf(h.Out(), "--- result: pass, output equals the golden file\n")
		case fixgold.Mismatch:
			fmt.Fprintf(h.Out(), "--- result: mismatch (golden vs. fixer output)\n%s", res.Diff)
		case fixgold.FixerError:
			fmt.Fprintf(h.Out(), "--- result: fixer exited with code %d\n%s", res.FixerCode, res.FixerStderr)
		}
	}
}

// NewCommand returns a cobra command instance based on Handler.
func NewCommand() *cobra.Command {
	return handler_cobra.NewHandler(&Handler{
		Session: &handler.DefaultSession{},
	})
}

var _ handler_cobra.Handler = (*Handler)(nil)
