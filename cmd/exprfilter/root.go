// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd creates the root command for the exprfilter CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exprfilter",
		Short: "exprfilter - embeddable expression filter engine",
		Long: `exprfilter compiles and evaluates textual filter expressions against
structured records, the way a firewall rule or log-routing predicate would.`,
	}

	cmd.AddCommand(newCheckCmd())

	return cmd
}
