// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bless

import (
	"github.com/spf13/cobra"

	"github.com/codeactual/fixgold/cmd/fixgold/bless/run"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bless",
		Short: "Commands for regenerating golden files from fixer output",
	}
	cmd.AddCommand(run.NewCommand())
	return cmd
}
