package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/database/books"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/entrypoint"
	"github.com/EtsTest-AndroidApps/QReader/internal/library"
)

type booksOptions struct {
	sort  string
	desc  bool
	query string
}

func newBooksCommand(root *rootOptions) *cobra.Command {
	opts := &booksOptions{}
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				list, err := app.DB.Queries(ctx).Books.ListBooks(books.ListOptions{
					Sort:       books.ParseSortField(opts.sort),
					Descending: opts.desc,
					Query:      opts.query,
				})
				if err != nil {
					return fmt.Errorf("list books: %w", err)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tRATING\tLAST READ\tCOMPLETED")
				for _, b := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%t\n", b.ID, b.Name, b.Author, b.Rating, b.LastRead, b.Completed)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&opts.sort, "sort", "name", "sort by name, author, rating, last_read or completed")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "sort descending")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "filter by name or author")
	return cmd
}

func newGroupsCommand(root *rootOptions) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "groups <book-id>",
		Short: "Show the chapter groups of a book, fetching them when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				book, err := app.DB.Queries(ctx).Books.GetByID(args[0])
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("book %s not found", args[0])
				}
				if err != nil {
					return fmt.Errorf("get book: %w", err)
				}

				view, err := app.Groups.GetGroups(ctx, book, refresh)
				if err != nil {
					return err
				}
				list, err := view.Get(ctx)
				if err != nil {
					return err
				}
				return printGroups(cmd, list)
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the remote listing even when groups are cached")
	return cmd
}

func printGroups(cmd *cobra.Command, list []entities.Group) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEXT\tSOURCE\tLAST READ\tLINK")
	for _, g := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", g.Text, g.Source, g.LastRead, g.Link)
	}
	return w.Flush()
}

func newLastReadCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "last-read <link> <value>",
		Short: "Set the last-read marker of a chapter group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid last-read value %q: %w", args[1], err)
			}
			return root.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				if err := app.Groups.UpdateLastRead(ctx, &entities.Group{Link: args[0]}, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s to %d\n", args[0], value)
				return nil
			})
		},
	}
}

func newIndexCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Refresh the chapter groups of every unfinished book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				result, err := app.Indexer.IndexAll(ctx)
				if errors.Is(err, library.ErrIndexRunning) {
					return fmt.Errorf("another index run is in progress")
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d books: %d refreshed, %d skipped, %d failed\n",
					result.TotalBooks, result.Refreshed, result.Skipped, result.Failed)
				return nil
			})
		},
	}
}
