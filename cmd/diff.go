package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/paymail/internal/application"
	"github.com/bnema/paymail/internal/domain"
)

func newDiffCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Show status transitions between two vendor snapshots",
		Long:  "diff compares two JSON arrays of vendor records position by position and marks the Not Paid -> Paid transitions that would trigger a confirmation.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			current, err := readSnapshot(args[1])
			if err != nil {
				return err
			}

			transitions := application.Diff(previous, current)
			if asJSON {
				return writeJSON(cmd, transitions)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "changes: %d, qualifying: %d\n", len(transitions), len(application.Qualifying(transitions)))
			for _, tr := range transitions {
				marker := " "
				if tr.Qualifies() {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s [%d] %s: %s -> %s\n", marker, tr.Index, tr.Vendor.VendorName, tr.OldStatus, tr.NewStatus)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print transitions as JSON")

	return cmd
}

func readSnapshot(path string) ([]domain.VendorRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var records []domain.VendorRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return records, nil
}
