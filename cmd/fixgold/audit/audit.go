// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package audit

import (
	"github.com/spf13/cobra"

	"github.com/codeactual/fixgold/cmd/fixgold/audit/run"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Commands for checking fixture corpus hygiene",
	}
	cmd.AddCommand(run.NewCommand())
	return cmd
}
