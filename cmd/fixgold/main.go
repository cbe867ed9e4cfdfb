// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeactual/fixgold/cmd/fixgold/audit"
	"github.com/codeactual/fixgold/cmd/fixgold/bless"
	"github.com/codeactual/fixgold/cmd/fixgold/verify"
	"github.com/codeactual/fixgold/internal/ldflags"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fixgold",
		Short: "Manage expected-output fixtures for auto-fix lint rules",
	}

	rootCmd.Version = ldflags.Version
	rootCmd.AddCommand(verify.NewCommand())
	rootCmd.AddCommand(bless.NewCommand())
	rootCmd.AddCommand(audit.NewCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
