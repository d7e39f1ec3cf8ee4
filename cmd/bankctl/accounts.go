package main

import (
	"errors"
	"flag"
	"os"
	"text/tabwriter"
)

func runAccounts(cmdCtx *commandContext, _ []string) error {
	if err := guardAuth(cmdCtx, "/accounts"); err != nil {
		return err
	}

	accounts, err := cmdCtx.App.Accounts.Mine(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		writef(os.Stdout, "no accounts\n")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	writef(tw, "NUMBER\tTYPE\tBALANCE\tCURRENCY\tSTATUS\n")
	for _, a := range accounts {
		writef(tw, "%s\t%s\t%.2f\t%s\t%s\n",
			a.AccountNumber, a.AccountType, a.Balance, a.Currency, a.Status)
	}
	return tw.Flush()
}

func runTransfer(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
	from := fs.String("from", "", "source account number (required)")
	to := fs.String("to", "", "destination account number (required)")
	amount := fs.Float64("amount", 0, "amount to transfer (required)")
	desc := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" || *to == "" {
		return errors.New("-from and -to are required")
	}
	if *amount <= 0 {
		return errors.New("-amount must be positive")
	}
	if err := guardAuth(cmdCtx, "/transfer"); err != nil {
		return err
	}

	txn, err := cmdCtx.App.Transactions.Transfer(cmdCtx.Ctx, *from, *to, *amount, *desc)
	if err != nil {
		return err
	}
	writef(os.Stdout, "transfer %s: %.2f from %s to %s (%s)\n",
		txn.ID, txn.Amount, txn.Source(), txn.Destination(), txn.Status)
	return nil
}

func runDeposit(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("deposit", flag.ContinueOnError)
	account := fs.String("account", "", "account number (required)")
	amount := fs.Float64("amount", 0, "amount to deposit (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *account == "" {
		return errors.New("-account is required")
	}
	if *amount <= 0 {
		return errors.New("-amount must be positive")
	}
	if err := guardAuth(cmdCtx, "/deposit"); err != nil {
		return err
	}

	txn, err := cmdCtx.App.Transactions.Deposit(cmdCtx.Ctx, *account, *amount)
	if err != nil {
		return err
	}
	writef(os.Stdout, "deposit %s: %.2f into %s (%s)\n",
		txn.ID, txn.Amount, *account, txn.Status)
	return nil
}

func runWithdraw(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	account := fs.String("account", "", "account number (required)")
	amount := fs.Float64("amount", 0, "amount to withdraw (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *account == "" {
		return errors.New("-account is required")
	}
	if *amount <= 0 {
		return errors.New("-amount must be positive")
	}
	if err := guardAuth(cmdCtx, "/withdraw"); err != nil {
		return err
	}

	txn, err := cmdCtx.App.Transactions.Withdraw(cmdCtx.Ctx, *account, *amount)
	if err != nil {
		return err
	}
	writef(os.Stdout, "withdrawal %s: %.2f from %s (%s)\n",
		txn.ID, txn.Amount, *account, txn.Status)
	return nil
}

func runHistory(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	account := fs.String("account", "", "account number (required)")
	page := fs.Int("page", 0, "zero-based page")
	size := fs.Int("size", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *account == "" {
		return errors.New("-account is required")
	}
	if err := guardAuth(cmdCtx, "/history"); err != nil {
		return err
	}

	txns, err := cmdCtx.App.Transactions.History(cmdCtx.Ctx, *account, *page, *size)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		writef(os.Stdout, "no transactions\n")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	writef(tw, "DATE\tTYPE\tAMOUNT\tFROM\tTO\tSTATUS\n")
	for _, t := range txns {
		writef(tw, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			t.Date(), t.TransactionType, t.Amount, t.Source(), t.Destination(), t.Status)
	}
	return tw.Flush()
}
