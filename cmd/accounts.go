package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	statusadapter "github.com/bnema/paymail/internal/adapters/render/status"
	"github.com/bnema/paymail/internal/domain"
)

func newAccountsCmd(loader *appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect and manage sending accounts",
	}

	cmd.AddCommand(
		newAccountsStatusCmd(loader),
		newAccountsCheckCmd(loader),
		newAccountsAddCmd(loader),
	)

	return cmd
}

func newAccountsStatusCmd(loader *appLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's usage per sending account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loader.load(cmd.Context())
			if err != nil {
				return err
			}

			report := app.pool.StatusReport()
			if asJSON {
				return writeJSON(cmd, report)
			}

			rendered, err := app.statusRenderer(report, statusadapter.RenderOptions{Now: app.clock.Now()})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func newAccountsCheckCmd(loader *appLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate account credentials without sending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loader.load(cmd.Context())
			if err != nil {
				return err
			}

			report := app.sender.CheckConnection()
			if asJSON {
				return writeJSON(cmd, report)
			}

			rendered, err := app.checkRenderer(report)
			if err != nil {
				return fmt.Errorf("render check: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func newAccountsAddCmd(loader *appLoader) *cobra.Command {
	var (
		user      string
		name      string
		secretRef string
		quota     int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a sending account in the accounts file",
		Long:  "add records a sending identity and a reference to its app password. The password itself stays in the environment, pass or the secrets directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loader.load(cmd.Context())
			if err != nil {
				return err
			}

			user = strings.TrimSpace(user)
			if !domain.ValidEmail(user) {
				return &domain.ValidationError{Field: "user", Reason: "invalid email format"}
			}
			if quota < 0 {
				return &domain.ValidationError{Field: "quota", Reason: "must not be negative"}
			}

			account := domain.Account{
				ID:          domain.AccountID(user),
				DisplayName: strings.TrimSpace(name),
				SecretRef:   strings.TrimSpace(secretRef),
				DailyQuota:  quota,
			}
			if err := app.repo.Save(cmd.Context(), account); err != nil {
				return fmt.Errorf("save account %s: %w", user, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s to %s\n", user, app.repo.Path())
			return err
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "sending email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&secretRef, "secret-ref", "", "secret reference, e.g. paymail/accounts/ops")
	cmd.Flags().IntVar(&quota, "quota", 0, "daily quota (0 uses dispatch.daily_quota)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("secret-ref")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
