package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mccwk.com/rl/internal/links"
)

var (
	listFilter string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved links",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "View to show: all, unread, read, or trash")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Substring to match against title and URL")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filter := links.ParseFilter(listFilter)
	ctx := context.Background()

	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	mgr, _, err := app.managerFor(ctx)
	if err != nil {
		return err
	}

	items := mgr.View(filter, listSearch)
	counts := mgr.Counts()

	fmt.Printf("%d total · %d unread · %d read · %d in trash\n\n",
		counts.Total, counts.Unread, counts.Read, counts.Trashed)

	if len(items) == 0 {
		fmt.Println("No links to show.")
		return nil
	}

	for _, item := range items {
		marker := " "
		switch {
		case item.IsDeleted:
			marker = "x"
		case item.IsRead:
			marker = "✓"
		}
		saved := time.UnixMilli(item.CreatedAt).Format("2006-01-02")
		fmt.Printf("[%s] %s  (%s)\n    %s\n", marker, item.Title, saved, item.URL)
	}
	return nil
}
