package domain

import "strings"

// NormalizeAccounts drops accounts with a blank identity or secret and keeps the
// first occurrence of each identity, preserving order.
func NormalizeAccounts(accounts []Account) []Account {
	result := make([]Account, 0, len(accounts))
	seen := make(map[AccountID]struct{}, len(accounts))
	for _, account := range accounts {
		account.ID = AccountID(strings.TrimSpace(string(account.ID)))
		if account.ID == "" || strings.TrimSpace(account.Secret) == "" {
			continue
		}
		key := AccountID(strings.ToLower(string(account.ID)))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, account)
	}

	return result
}
