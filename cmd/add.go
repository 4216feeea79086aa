package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var addTitle string

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Save a link from the command line",
	Long: `Save a URL without opening the TUI. Metadata (title, description,
summary) is generated the same way the TUI does it: by the configured AI
provider when an API key is set, otherwise from the URL itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Title to use instead of the generated one")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	mgr, acct, err := app.managerFor(ctx)
	if err != nil {
		return err
	}

	item, err := mgr.Add(ctx, args[0], addTitle)
	if err != nil {
		return err
	}

	where := "locally"
	if !acct.IsGuest() {
		where = "for " + acct.Email
	}
	fmt.Printf("Saved %s: %s\n", where, item.Title)
	fmt.Printf("  %s\n", item.URL)
	if item.Description != "" {
		fmt.Printf("  %s\n", item.Description)
	}
	if item.Summary != "" {
		fmt.Printf("  %s\n", item.Summary)
	}
	return nil
}
