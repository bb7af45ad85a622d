package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bnema/paymail/internal/application"
)

func newSendCmd(loader *appLoader) *cobra.Command {
	var (
		req    application.DispatchRequest
		amount string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one payment confirmation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loader.load(cmd.Context())
			if err != nil {
				return err
			}

			parsed, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parse --amount %q: %w", amount, err)
			}
			req.Amount = parsed

			notification, err := app.notifier.Notify(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, notification.Result)
			}

			result := notification.Result
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s via %s (account #%d %s, usage %d/%d)\n",
				result.Method, result.MessageID, req.Email, result.AccountIndex, result.AccountName, result.UsageAfter, result.Quota)
			return err
		},
	}

	cmd.Flags().StringVar(&req.VendorName, "vendor", "", "vendor name")
	cmd.Flags().StringVar(&req.Email, "email", "", "vendor email address")
	cmd.Flags().StringVar(&req.PaymentDate, "date", "", "payment date as shown to the vendor")
	cmd.Flags().StringVar(&amount, "amount", "0", "payment amount in rupees")
	cmd.Flags().StringVar(&req.VendorID, "vendor-id", "", "optional reference id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dispatch result as JSON")
	_ = cmd.MarkFlagRequired("vendor")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
