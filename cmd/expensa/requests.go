// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/expensa/internal/advance"
	"github.com/taibuivan/expensa/internal/expense"
	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/views"
	"github.com/taibuivan/expensa/internal/workflow"
	"github.com/taibuivan/expensa/pkg/pointer"
)

// # Shared Flags

// listFlags select one page of a list command.
type listFlags struct {
	filter string
	page   int
	limit  int
}

func (flags *listFlags) bind(cmd *cobra.Command, filterName, filterUsage string) {
	cmd.Flags().StringVar(&flags.filter, filterName, constants.FilterAll, filterUsage)
	cmd.Flags().IntVar(&flags.page, "page", constants.DefaultPage, "page number, starting at 1")
	cmd.Flags().IntVar(&flags.limit, "limit", constants.DefaultLimit, "items per page")
}

// loadPage drives a [views.ListView] the way a paginated table would.
func loadPage[T any](ctx context.Context, load views.Loader[T], flags listFlags) (*views.ListView[T], error) {
	view := views.NewListView(load)
	view.SetFilter(flags.filter)

	view.SetPage(views.PageEvent{PageIndex: pointer.To(flags.page - 1), PageSize: flags.limit})

	if err := view.Load(ctx); err != nil {
		return nil, shown(err)
	}
	return view, nil
}

// statusFilter validates a --status flag value.
func statusFilter(raw string) (string, error) {
	if raw == "" || strings.EqualFold(raw, constants.FilterAll) {
		return constants.FilterAll, nil
	}
	status, ok := workflow.ParseStatus(raw)
	if !ok {
		return "", apperr.BadRequest(fmt.Sprintf("unknown status %q", raw))
	}
	return string(status), nil
}

// # Review Commands

// reviewer adapts one resource service to the review commands.
type reviewer[R any] struct {
	get    func(ctx context.Context, id string) (R, error)
	apply  func(ctx context.Context, record *R, action workflow.Action) error
	report func(record R) string
}

// reviewCommand builds `approve`, `reject` or `review` for one resource.
func reviewCommand[R any](action workflow.Action, noun string, service func() reviewer[R]) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <id>", action),
		Short: fmt.Sprintf("Mark a %s as %s (Admin)", noun, strings.ToLower(string(action.Target()))),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(); err != nil {
				return err
			}

			current := service()

			record, err := current.get(cmd.Context(), args[0])
			if err != nil {
				return shown(err)
			}

			if err := current.apply(cmd.Context(), &record, action); err != nil {
				return shown(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), current.report(record))
			return nil
		},
	}
}

// # Expenses

var (
	expenseList   listFlags
	expenseCreate expense.NewExpense
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"expense"},
	Short:   "Submit and review expenses",
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, optionally by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSignIn(); err != nil {
			return err
		}

		filter, err := statusFilter(expenseList.filter)
		if err != nil {
			return err
		}
		flags := expenseList
		flags.filter = filter

		view, err := loadPage[expense.Expense](cmd.Context(), application.Expenses.List, flags)
		if err != nil {
			return err
		}

		out := table(cmd.OutOrStdout())
		fmt.Fprintln(out, "ID\tDATE\tEMPLOYEE\tCATEGORY\tAMOUNT\tSTATUS\tPURPOSE")
		for _, item := range view.Items() {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				item.ID, date(item.CreatedAt), item.EmployeeName, item.Category, amount(item.Amount), item.Status, item.Purpose)
		}
		if err := out.Flush(); err != nil {
			return err
		}

		query := view.Query()
		footer(cmd.OutOrStdout(), query.Page, query.Limit, view.Total())
		return nil
	},
}

var expensesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new expense",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSignIn(); err != nil {
			return err
		}

		created, err := application.Expenses.Create(cmd.Context(), expenseCreate)
		if err != nil {
			return shown(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", created.ID, amount(created.Amount), created.Status)
		return nil
	},
}

func expenseReviewer() reviewer[expense.Expense] {
	service := application.Expenses
	return reviewer[expense.Expense]{
		get: service.Get,
		apply: func(ctx context.Context, record *expense.Expense, action workflow.Action) error {
			switch action {
			case workflow.ActionApprove:
				return service.Approve(ctx, record)
			case workflow.ActionReject:
				return service.Reject(ctx, record)
			default:
				return service.MarkReviewed(ctx, record)
			}
		},
		report: func(record expense.Expense) string {
			return fmt.Sprintf("%s\t%s\t%s", record.ID, amount(record.Amount), record.Status)
		},
	}
}

// # Advances

var (
	advanceList   listFlags
	advanceCreate advance.NewAdvance
)

var advancesCmd = &cobra.Command{
	Use:     "advances",
	Aliases: []string{"advance"},
	Short:   "Request and review cash advances",
}

var advancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List advances, optionally by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSignIn(); err != nil {
			return err
		}

		filter, err := statusFilter(advanceList.filter)
		if err != nil {
			return err
		}
		flags := advanceList
		flags.filter = filter

		view, err := loadPage[advance.Advance](cmd.Context(), application.Advances.List, flags)
		if err != nil {
			return err
		}

		out := table(cmd.OutOrStdout())
		fmt.Fprintln(out, "ID\tDATE\tEMPLOYEE\tAMOUNT\tOUTSTANDING\tSTATUS\tRECONCILED\tPURPOSE")
		for _, item := range view.Items() {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
				item.ID, date(item.CreatedAt), item.EmployeeName, amount(item.Amount), amount(item.Outstanding()),
				item.Status, item.Reconciled, item.Purpose)
		}
		if err := out.Flush(); err != nil {
			return err
		}

		query := view.Query()
		footer(cmd.OutOrStdout(), query.Page, query.Limit, view.Total())
		return nil
	},
}

var advancesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Request a new advance",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSignIn(); err != nil {
			return err
		}

		created, err := application.Advances.Create(cmd.Context(), advanceCreate)
		if err != nil {
			return shown(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", created.ID, amount(created.Amount), created.Status)
		return nil
	},
}

func advanceReviewer() reviewer[advance.Advance] {
	service := application.Advances
	return reviewer[advance.Advance]{
		get: service.Get,
		apply: func(ctx context.Context, record *advance.Advance, action workflow.Action) error {
			switch action {
			case workflow.ActionApprove:
				return service.Approve(ctx, record)
			case workflow.ActionReject:
				return service.Reject(ctx, record)
			default:
				return service.MarkReviewed(ctx, record)
			}
		},
		report: func(record advance.Advance) string {
			return fmt.Sprintf("%s\t%s\t%s", record.ID, amount(record.Amount), record.Status)
		},
	}
}

// # Registration

func init() {
	actions := []workflow.Action{workflow.ActionApprove, workflow.ActionReject, workflow.ActionReview}

	expenseList.bind(expensesListCmd, "status", "Pending, Reviewed, Approved, Rejected or ALL")
	expensesCreateCmd.Flags().Float64Var(&expenseCreate.Amount, "amount", 0, "amount spent")
	expensesCreateCmd.Flags().StringVar(&expenseCreate.Purpose, "purpose", "", "what the money was spent on")
	expensesCreateCmd.Flags().StringVar(&expenseCreate.Category, "category", "", "expense category")
	expensesCreateCmd.Flags().StringVar(&expenseCreate.ProjectID, "project", "", "project id")
	expensesCmd.AddCommand(expensesListCmd, expensesCreateCmd)
	for _, action := range actions {
		expensesCmd.AddCommand(reviewCommand(action, "expense", expenseReviewer))
	}

	advanceList.bind(advancesListCmd, "status", "Pending, Reviewed, Approved, Rejected or ALL")
	advancesCreateCmd.Flags().Float64Var(&advanceCreate.Amount, "amount", 0, "amount requested")
	advancesCreateCmd.Flags().StringVar(&advanceCreate.Purpose, "purpose", "", "what the advance is for")
	advancesCreateCmd.Flags().StringVar(&advanceCreate.ProjectID, "project", "", "project id")
	advancesCmd.AddCommand(advancesListCmd, advancesCreateCmd)
	for _, action := range actions {
		advancesCmd.AddCommand(reviewCommand(action, "advance", advanceReviewer))
	}
}
