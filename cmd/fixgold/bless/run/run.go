// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package run

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/codeactual/fixgold/internal/cage/cli/handler"
	handler_cobra "github.com/codeactual/fixgold/internal/cage/cli/handler/cobra"
	log_pprof "github.com/codeactual/fixgold/internal/cage/cli/handler/mixin/log/pprof"
	log_zap "github.com/codeactual/fixgold/internal/cage/cli/handler/mixin/log/zap"
	cage_errors "github.com/codeactual/fixgold/internal/cage/errors"
	cage_reflect "github.com/codeactual/fixgold/internal/cage/reflect"
	"github.com/codeactual/fixgold/internal/fixgold"
)

// Handler defines the sub-command flags and logic.
type Handler struct {
	handler.Session

	ConfigFile string `usage:"configuration file (.json/.toml/.yaml/.yml)"`
	Op         string `usage:"Ops.Id value from the config file"`
	ReportFile string `usage:"Write a result report file (.json/.toml/.yaml/.yml)"`
	DryRun     bool   `usage:"Only report the golden files a bless would write"`
	Progress   string `usage:"(comma-separated) Printed status message types: audit,case"`

	Log     *log_zap.Mixin
	Profile *log_pprof.Mixin

	config fixgold.Config

	progressTypes map[string]bool
}

// Init defines the command, its environment variable prefix, etc.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) Init() handler_cobra.Init {
	h.Log = &log_zap.Mixin{}
	h.Profile = &log_pprof.Mixin{}
	h.progressTypes = make(map[string]bool)

	return handler_cobra.Init{
		Cmd: &cobra.Command{
			Use:   "run",
			Short: "Rewrite the golden files from current fixer output",
		},
		EnvPrefix: "FIXGOLD",
		Mixins: []handler.Mixin{
			h.Log,
			h.Profile,
		},
	}
}

// BindFlags binds the flags to Handler fields.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) BindFlags(cmd *cobra.Command) []string {
	cmd.Flags().StringVarP(&h.ConfigFile, "config", "", "", cage_reflect.GetFieldTag(*h, "ConfigFile", "usage"))
	cmd.Flags().StringVarP(&h.Op, "op", "", "", cage_reflect.GetFieldTag(*h, "Op", "usage"))
	cmd.Flags().StringVarP(&h.ReportFile, "report", "", "", cage_reflect.GetFieldTag(*h, "ReportFile", "usage"))
	cmd.Flags().BoolVarP(&h.DryRun, "dry-run", "", false, cage_reflect.GetFieldTag(*h, "DryRun", "usage"))
	cmd.Flags().StringVarP(&h.Progress, "progress", "", "audit,case", cage_reflect.GetFieldTag(*h, "Progress", "usage"))
	return []string{"op"}
}

// PreRun executes after flag parsing and before Run.
//
// If it returns an error, Run and PostRun are not executed.
//
// It implements cli/handler.PreRun
func (h *Handler) PreRun(ctx context.Context, args []string) error {
	for _, t := range strings.Split(h.Progress, ",") {
		h.progressTypes[strings.TrimSpace(t)] = true
	}
	return nil
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
		var opList string
		for id := range h.config.Ops {
			opList += "\n\t" + id
		}
		fmt.Fprintf(h.Err(), "available operations:%s\n", opList)
		h.Log.ExitOnErr(1, errors.Errorf("config file [%s] does not contain operation [%s]", h.ConfigFile, h.Op))
		return
	}

	if h.DryRun {
		op.DryRun = true
	}

	audit := fixgold.NewAudit(op)

	if h.progressTypes["audit"] {
		audit.Progress = h.Err()
	}

	errs = audit.Generate()
	h.Log.ExitOnErr(1, errs...)

	if len(audit.Findings) > 0 {
		audit.PrintFindings(h.Err())
		h.Log.ExitOnErr(1, errors.Errorf("operation [%s] found %d fixture defect(s), bless canceled", h.Op, len(audit.Findings)))
		return
	}

	blesser := fixgold.NewBlesser(audit)

	if h.progressTypes["case"] {
		blesser.Progress = h.Err()
	}

	results, plan, errs := blesser.Run(ctx)
	h.Log.ExitOnErr(1, errs...)

	report := fixgold.NewReport(audit, results)
	if plan != nil {
		report.Blessed = append(plan.Add.SortedSlice(), plan.Overwrite.SortedSlice()...)
	}

	if h.ReportFile != "" {
		h.Log.ExitOnErr(1, report.WriteFile(h.ReportFile))
	}

	if op.DryRun {
		fmt.Fprintf(h.Out(), "dry-run: %d golden file(s) would be written\n", len(report.Blessed))
	} else {
		fmt.Fprintf(h.Out(), "%d golden file(s) written\n", len(report.Blessed))
	}

	for _, name := range report.Blessed {
		fmt.Fprintf(h.Out(), "\t%s\n", name)
	}
}

// NewCommand returns a cobra command instance based on Handler.
func NewCommand() *cobra.Command {
	return handler_cobra.NewHandler(&Handler{
		Session: &handler.DefaultSession{},
	})
}

var _ handler_cobra.Handler = (*Handler)(nil)
