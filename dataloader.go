package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

// UserSummary is the small slice of profile data the recommendation
// endpoints attach to each candidate id.
type UserSummary struct {
	UserID      int    `json:"user_id"`
	DisplayName string `json:"display_name"`
	City        string `json:"city,omitempty"`
}

// DataLoaders holds the batched loaders for the application
type DataLoaders struct {
	SummaryLoader *dataloader.Loader[int, *UserSummary]
}

// NewDataLoaders creates new dataloaders with the database connection
func NewDataLoaders(db *sql.DB) *DataLoaders {
	return &DataLoaders{
		SummaryLoader: dataloader.NewBatchedLoader(summaryBatchFn(db), dataloader.WithWait[int, *UserSummary](16*time.Millisecond)),
	}
}

// summaryBatchFn collapses per-candidate display name lookups into a single
// IN query per batch window.
func summaryBatchFn(db *sql.DB) dataloader.BatchFunc[int, *UserSummary] {
	return func(ctx context.Context, keys []int) []*dataloader.Result[*UserSummary] {
		results := make([]*dataloader.Result[*UserSummary], len(keys))

		keyMap := make(map[int]int) // userID -> index in results
		for i, key := range keys {
			keyMap[key] = i
			results[i] = &dataloader.Result[*UserSummary]{}
		}

		if len(keys) == 0 {
			return results
		}

		placeholders := make([]string, len(keys))
		args := make([]interface{}, len(keys))
		for i, key := range keys {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = key
		}

		query := fmt.Sprintf(`
			SELECT user_id, display_name, location_city
			FROM profiles
			WHERE user_id IN (%s)
		`, joinPlaceholders(placeholders))

		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			for i := range results {
				results[i].Error = err
			}
			return results
		}
		defer rows.Close()

		for rows.Next() {
			var s UserSummary
			if err := rows.Scan(&s.UserID, &s.DisplayName, &s.City); err != nil {
				for i := range results {
					if results[i].Data == nil && results[i].Error == nil {
						results[i].Error = err
					}
				}
				return results
			}

			if idx, ok := keyMap[s.UserID]; ok {
				summary := s
				results[idx].Data = &summary
			}
		}

		return results
	}
}

// Helper function to join placeholders for IN clause
func joinPlaceholders(placeholders []string) string {
	if len(placeholders) == 0 {
		return ""
	}
	result := placeholders[0]
	for i := 1; i < len(placeholders); i++ {
		result += ", " + placeholders[i]
	}
	return result
}
