// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package verify

import (
	"github.com/spf13/cobra"

	"github.com/codeactual/fixgold/cmd/fixgold/verify/run"
	"github.com/codeactual/fixgold/cmd/fixgold/verify/why"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Commands for checking fixer output against the golden files",
	}
	cmd.AddCommand(run.NewCommand())
	cmd.AddCommand(why.NewCommand())
	return cmd
}
