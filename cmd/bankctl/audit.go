package main

import (
	"os"
	"text/tabwriter"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
)

func runAuditTotals(cmdCtx *commandContext, _ []string) error {
	err := guardRole(cmdCtx, "/audit", domainauth.RoleAuditor, domainauth.RoleAdmin)
	if err != nil {
		return err
	}

	totals, err := cmdCtx.App.Audit.Totals(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	writef(tw, "Users:\t%d\n", totals.TotalUsers)
	writef(tw, "Accounts:\t%d\n", totals.TotalAccounts)
	writef(tw, "Transactions:\t%d\n", totals.TotalTransactions)
	writef(tw, "Total balance:\t%.2f\n", totals.TotalBalance)
	return tw.Flush()
}
