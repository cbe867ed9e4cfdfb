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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/codeactual/fixgold/internal/cage/cli/handler"
	handler_cobra "github.com/codeactual/fixgold/internal/cage/cli/handler/cobra"
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
			Use:   "run",
			Short: "Scan the fixture corpus for hygiene defects without running the fixer",
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
	cmd.Flags().StringVarP(&h.ReportFile, "report", "", "", cage_reflect.GetFieldTag(*h, "ReportFile", "usage"))
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
		var opList string
		for id := range h.config.Ops {
			opList += "\n\t" + id
		}
		fmt.Fprintf(h.Err(), "available operations:%s\n", opList)
		h.Log.ExitOnErr(1, errors.Errorf("config file [%s] does not contain operation [%s]", h.ConfigFile, h.Op))
		return
	}

	audit := fixgold.NewAudit(op)
	audit.Progress = h.Err()

	errs = audit.Generate()
	h.Log.ExitOnErr(1, errs...)

	if h.ReportFile != "" {
		report := fixgold.NewReport(audit, nil)
		h.Log.ExitOnErr(1, report.WriteFile(h.ReportFile))
	}

	if len(audit.Findings) > 0 {
		audit.PrintFindings(h.Out())
		h.Exitf(1, "operation [%s]: %d fixture defect(s) in %d case(s)", h.Op, len(audit.Findings), len(audit.Cases))
		return
	}

	fmt.Fprintf(h.Out(), "operation [%s]: %d case(s), no defects\n", h.Op, len(audit.Cases))
}

// NewCommand returns a cobra command instance based on Handler.
func NewCommand() *cobra.Command {
	return handler_cobra.NewHandler(&Handler{
		Session: &handler.DefaultSession{},
	})
}

var _ handler_cobra.Handler = (*Handler)(nil)
