package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/lib/pq"
)

// userSummary is the display info attached to detailed match results.
type userSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Age         int    `json:"age"`
	Occupation  string `json:"occupation"`
}

// newSummaryLoader builds a request-scoped loader that collapses the
// per-candidate summary lookups of one response into a single query.
func newSummaryLoader(db *sql.DB) *dataloader.Loader[string, *userSummary] {
	return dataloader.NewBatchedLoader(summaryBatchFn(db),
		dataloader.WithWait[string, *userSummary](2*time.Millisecond))
}

func summaryBatchFn(db *sql.DB) dataloader.BatchFunc[string, *userSummary] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*userSummary] {
		results := make([]*dataloader.Result[*userSummary], len(keys))
		keyIndex := make(map[string]int, len(keys))
		for i, key := range keys {
			keyIndex[key] = i
			results[i] = &dataloader.Result[*userSummary]{}
		}
		if len(keys) == 0 {
			return results
		}

		rows, err := db.QueryContext(ctx, `
			SELECT user_id, display_name, age, occupation
			FROM profiles
			WHERE user_id = ANY($1::uuid[])
		`, pq.Array(keys))
		if err != nil {
			for i := range results {
				results[i].Error = err
			}
			return results
		}
		defer rows.Close()

		for rows.Next() {
			var s userSummary
			if err := rows.Scan(&s.ID, &s.DisplayName, &s.Age, &s.Occupation); err != nil {
				for i := range results {
					if results[i].Data == nil && results[i].Error == nil {
						results[i].Error = err
					}
				}
				return results
			}
			if i, ok := keyIndex[s.ID]; ok {
				results[i].Data = &s
			}
		}
		// Keys with no row stay nil, the handler falls back to the id.
		return results
	}
}
