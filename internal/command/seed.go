package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alp4ka/moderator"
)

var (
	seedTitles = []string{
		"Black backpack", "Blue umbrella", "Leather wallet", "House keys",
		"Wireless earbuds", "Reading glasses", "Child's scarf", "Laptop charger",
	}
	seedCategories = []string{"Bags", "Accessories", "Electronics", "Keys", "Clothing"}
	seedStations   = []string{"Central", "North Park", "Line 2", "Harbour", "Airport Express"}
	seedStatuses   = []moderator.Status{
		moderator.StatusActive, moderator.StatusActive, moderator.StatusActive,
		moderator.StatusFlagged, moderator.StatusClaimed,
	}
)

func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed N",
		Short: "Insert N sample listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid item count %q", args[0])
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := a.store().Create(ctx, sampleItems(n, nowUTC())...); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d items.\n", n)

			return nil
		},
	}
}

// sampleItems returns n items posted one minute apart, newest first.
func sampleItems(n int, now time.Time) []moderator.Item {
	items := make([]moderator.Item, 0, n)
	for i := 0; i < n; i++ {
		posted := now.Add(-time.Duration(i) * time.Minute)
		itemType := moderator.TypeLost
		if i%3 == 0 {
			itemType = moderator.TypeFound
		}

		items = append(items, moderator.Item{
			ID:             uuid.NewString(),
			Title:          seedTitles[i%len(seedTitles)],
			Description:    fmt.Sprintf("Sample listing #%d", i+1),
			Category:       seedCategories[i%len(seedCategories)],
			Type:           itemType,
			Status:         seedStatuses[i%len(seedStatuses)],
			StationOrTrain: seedStations[i%len(seedStations)],
			Date:           posted.Format(time.RFC3339),
			DateStrNorm:    posted.Format(time.DateOnly),
			PostedBy:       fmt.Sprintf("user-%d", i%7),
			PostedByEmail:  fmt.Sprintf("user%d@example.com", i%7),
			Timestamp:      posted,
		})
	}

	return items
}
