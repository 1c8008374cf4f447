// services/ledger/internal/service/search.go
package service

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

// Search keeps the items for which any of fields contains query, compared
// after Unicode case folding. An empty query keeps everything.
func Search[T any](query string, items []T, fields func(T) []string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]T, 0)
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(fold.String(f), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// SearchEntries returns the entries whose description, notes or category contains query, ignoring case.
// An empty query returns every entry.
func SearchEntries(query string, entries []domain.LedgerEntry) []domain.LedgerEntry {
	return Search(query, entries, func(e domain.LedgerEntry) []string {
		return []string{e.Description, e.Notes, string(e.Category)}
	})
}

// SearchTransfers filters transfers by payer, payee, reason and reference code
func SearchTransfers(query string, transfers []domain.WireTransfer) []domain.WireTransfer {
	return Search(query, transfers, func(t domain.WireTransfer) []string {
		return []string{t.PayerName, t.PayeeName, t.Reason, t.ReferenceCode}
	})
}

// SearchLedger runs the query over the stored entries and transfers.
func (s *LedgerService) SearchLedger(ctx context.Context, query string) (*models.SearchResult, error) {
	snap, err := store.Load(ctx, s.store, s.scope())
	if err != nil {
		return nil, err
	}
	return &models.SearchResult{
		Entries:   SearchEntries(query, snap.Entries),
		Transfers: SearchTransfers(query, snap.Transfers),
	}, nil
}
