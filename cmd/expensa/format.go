// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/pkg/pagination"
)

var printer = message.NewPrinter(language.English)

func notifier() notify.Notifier { return terminal }

// amount renders money with grouping, e.g. 1,234.50.
func amount(value float64) string {
	return printer.Sprintf("%.2f", value)
}

// date renders a Unix millisecond timestamp as a calendar day.
func date(millis int64) string {
	if millis <= 0 {
		return "-"
	}
	return time.UnixMilli(millis).Local().Format(time.DateOnly)
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

// footer prints the paging position below a list.
func footer(out io.Writer, page, limit, total int) {
	pages := max(pagination.TotalPages(total, limit), 1)
	fmt.Fprintf(out, "\nPage %d of %d, %s total\n", page, pages, printer.Sprintf("%d", total))
}

// requireAdmin gates commands that only administrators may run.
func requireAdmin() error {
	if !application.Session.IsAuthenticated() {
		return errors.New("not signed in; run `expensa login`")
	}
	if !application.Session.HasRole(sec.RoleAdmin) {
		return errors.New("this command requires the Admin role")
	}
	return nil
}

// requireSignIn gates commands that need any session.
func requireSignIn() error {
	if !application.Session.IsAuthenticated() {
		return errors.New("not signed in; run `expensa login`")
	}
	return nil
}
