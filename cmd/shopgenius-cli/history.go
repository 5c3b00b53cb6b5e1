package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/storage"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded search and price history",
	}
	cmd.AddCommand(historySearchesCmd(), historyPricesCmd())
	return cmd
}

func historySearchesCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "searches",
		Short: "Show recent searches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := storage.NewHistoryRepository(store).RecentSearches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no searches recorded")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  %s  (%d results)\n",
					e.CreatedAt.Format("2006-01-02 15:04"),
					color.CyanString(e.Query),
					e.Total)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	return cmd
}

func historyPricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices <title>",
		Short: "Show price observations for an exact product title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := storage.NewHistoryRepository(store).PriceHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no observations for that title")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  %s\n",
					e.CreatedAt.Format("2006-01-02 15:04"),
					color.GreenString(e.Price))
			}
			return nil
		},
	}
}
