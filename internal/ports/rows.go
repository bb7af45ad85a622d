package ports

import "github.com/bnema/paymail/internal/domain"

// RowNormalizer converts raw spreadsheet rows into vendor records.
type RowNormalizer interface {
	Normalize(rows []map[string]any) ([]domain.VendorRecord, error)
}
