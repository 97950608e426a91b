// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taibuivan/expensa/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show request summaries and budget usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSignIn(); err != nil {
			return err
		}

		ctx := cmd.Context()

		expenses, err := application.Dashboard.ExpensesSummary(ctx)
		if err != nil {
			return shown(err)
		}

		advances, err := application.Dashboard.AdvanceSummary(ctx)
		if err != nil {
			return shown(err)
		}

		out := table(cmd.OutOrStdout())
		fmt.Fprintln(out, "\tTOTAL\tPENDING\tREVIEWED\tAPPROVED\tREJECTED\tAMOUNT\tAPPROVAL")
		writeSummary(out, "Expenses", expenses)
		writeSummary(out, "Advances", advances)
		if err := out.Flush(); err != nil {
			return err
		}

		budget, err := application.Dashboard.Budget(ctx)
		if err != nil {
			return shown(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nBudget %s, used %s (%d%%), remaining %s\n",
			amount(budget.Allocated), amount(budget.Used), budget.UsagePercentage, amount(budget.Remaining))
		return nil
	},
}

func writeSummary(out io.Writer, label string, summary dashboard.StatusSummary) {
	fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%d%%\n",
		label, summary.Total, summary.Pending, summary.Reviewed, summary.Approved, summary.Rejected,
		amount(summary.TotalAmount), summary.ApprovalRate)
}
