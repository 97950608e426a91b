// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/expensa/internal/department"
	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/internal/project"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/user"
	"github.com/taibuivan/expensa/internal/views"
)

// # Users

var (
	userList   listFlags
	userCreate user.NewUser
	userRole   string
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage user accounts (Admin)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts, optionally by role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		flags := userList
		if flags.filter != "" && !strings.EqualFold(flags.filter, constants.FilterAll) {
			role, ok := sec.ParseRole(flags.filter)
			if !ok {
				return apperr.BadRequest(fmt.Sprintf("unknown role %q", flags.filter))
			}
			flags.filter = string(role)
		}

		view, err := loadPage[user.User](cmd.Context(), application.Users.List, flags)
		if err != nil {
			return err
		}

		out := table(cmd.OutOrStdout())
		fmt.Fprintln(out, "ID\tNAME\tEMAIL\tROLE\tSTATUS\tJOINED")
		for _, item := range view.Items() {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n",
				item.ID, item.Name, item.Email, item.Role, item.Status, date(item.CreatedAt))
		}
		if err := out.Flush(); err != nil {
			return err
		}

		summary := views.SummarizeUsers(view.Items())
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d active (%d%%), %d inactive, %d admins, %d employees\n",
			summary.Active, summary.ActivePercentage, summary.Inactive, summary.Admins, summary.Employees)

		query := view.Query()
		footer(cmd.OutOrStdout(), query.Page, query.Limit, view.Total())
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		payload := userCreate
		if role, ok := sec.ParseRole(userRole); ok {
			payload.Role = role
		}

		created, err := application.Users.Create(cmd.Context(), payload)
		if err != nil {
			return shown(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", created.ID, created.Email, created.Role)
		return nil
	},
}

// userStatusCommand builds `activate` or `deactivate`.
func userStatusCommand(use string, status user.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark an account %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(); err != nil {
				return err
			}
			return shown(application.Users.SetStatus(cmd.Context(), args[0], status))
		},
	}
}

// # Projects

var (
	projectList   listFlags
	projectCreate project.NewProject
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "Browse and manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, optionally by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSignIn(); err != nil {
			return err
		}

		flags := projectList
		if flags.filter != "" && !strings.EqualFold(flags.filter, constants.FilterAll) {
			status, ok := project.ParseStatus(flags.filter)
			if !ok {
				return apperr.BadRequest(fmt.Sprintf("unknown project status %q", flags.filter))
			}
			flags.filter = string(status)
		}

		view, err := loadPage[project.Project](cmd.Context(), application.Projects.List, flags)
		if err != nil {
			return err
		}

		out := table(cmd.OutOrStdout())
		fmt.Fprintln(out, "ID\tNAME\tDEPARTMENT\tBUDGET\tSTATUS")
		for _, item := range view.Items() {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Name, item.DepartmentID, amount(item.Budget), item.Status)
		}
		if err := out.Flush(); err != nil {
			return err
		}

		summary := views.SummarizeProjects(view.Items())
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d active of %d, budget %s (avg %s)\n",
			summary.Active, summary.Count, amount(summary.TotalBudget), amount(summary.AverageBudget))

		query := view.Query()
		footer(cmd.OutOrStdout(), query.Page, query.Limit, view.Total())
		return nil
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project (Admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		created, err := application.Projects.Create(cmd.Context(), projectCreate)
		if err != nil {
			return shown(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", created.ID, created.Name, amount(created.Budget))
		return nil
	},
}

var projectsStatusCmd = &cobra.Command{
	Use:   "status <id> <active|completed|on_hold>",
	Short: "Change a project's status (Admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		status, ok := project.ParseStatus(args[1])
		if !ok {
			return apperr.BadRequest(fmt.Sprintf("unknown project status %q", args[1]))
		}
		return shown(application.Projects.SetStatus(cmd.Context(), args[0], status))
	},
}

// # Departments

var (
	departmentSearch string
	departmentCreate department.NewDepartment
)

var departmentsCmd = &cobra.Command{
	Use:     "departments",
	Aliases: []string{"department"},
	Short:   "Browse and manage departments",
}

var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments, optionally narrowed by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSignIn(); err != nil {
			return err
		}

		page, err := application.Departments.List(cmd.Context(), resource.ListQuery{Page: constants.DefaultPage, Limit: 100})
		if err != nil {
			return shown(err)
		}

		list := views.NewFilteredList(page.Items, "", func(item department.Department, search string) bool {
			return strings.Contains(strings.ToLower(item.Name), search)
		})
		list.Select(strings.ToLower(strings.TrimSpace(departmentSearch)))

		out := table(cmd.OutOrStdout())
		fmt.Fprintln(out, "ID\tNAME\tMANAGER\tBUDGET")
		for _, item := range list.Items() {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Manager, amount(item.Budget))
		}
		if err := out.Flush(); err != nil {
			return err
		}

		summary := views.SummarizeDepartments(list.Items())
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d departments, budget %s (avg %s)\n",
			summary.Count, amount(summary.TotalBudget), amount(summary.AverageBudget))
		return nil
	},
}

var departmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a department (Admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		created, err := application.Departments.Create(cmd.Context(), departmentCreate)
		if err != nil {
			return shown(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", created.ID, created.Name, amount(created.Budget))
		return nil
	},
}

// # Registration

func init() {
	userList.bind(usersListCmd, "role", "Admin, Employee or ALL")
	usersCreateCmd.Flags().StringVar(&userCreate.Name, "name", "", "full name")
	usersCreateCmd.Flags().StringVar(&userCreate.Email, "email", "", "login email")
	usersCreateCmd.Flags().StringVar(&userCreate.Password, "password", "", "initial password")
	usersCreateCmd.Flags().StringVar(&userRole, "role", string(sec.RoleEmployee), "Admin or Employee")
	usersCreateCmd.Flags().StringVar(&userCreate.DepartmentID, "department", "", "department id")
	usersCmd.AddCommand(usersListCmd, usersCreateCmd,
		userStatusCommand("activate", user.StatusActive),
		userStatusCommand("deactivate", user.StatusInactive))

	projectList.bind(projectsListCmd, "status", "active, completed, on_hold or ALL")
	projectsCreateCmd.Flags().StringVar(&projectCreate.Name, "name", "", "project name")
	projectsCreateCmd.Flags().StringVar(&projectCreate.DepartmentID, "department", "", "owning department id")
	projectsCreateCmd.Flags().Float64Var(&projectCreate.Budget, "budget", 0, "allocated budget")
	projectsCmd.AddCommand(projectsListCmd, projectsCreateCmd, projectsStatusCmd)

	departmentsListCmd.Flags().StringVar(&departmentSearch, "search", "", "case-insensitive name fragment")
	departmentsCreateCmd.Flags().StringVar(&departmentCreate.Name, "name", "", "department name")
	departmentsCreateCmd.Flags().StringVar(&departmentCreate.Manager, "manager", "", "manager name")
	departmentsCreateCmd.Flags().Float64Var(&departmentCreate.Budget, "budget", 0, "yearly budget")
	departmentsCmd.AddCommand(departmentsListCmd, departmentsCreateCmd)
}
