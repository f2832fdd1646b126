package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"urlsort/internal/memo"
	"urlsort/internal/textutil"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the memo cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memoized entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMemo(true, func(store *memo.Store) error {
				entries, err := store.List(commandCtx(cmd))
				if err != nil {
					return err
				}
				now := ctx.now()
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					if name != "" && e.Key.Name != name {
						continue
					}
					rows = append(rows, []string{
						e.Key.Name,
						summarizeArgs(e.Key.Args),
						textutil.Ternary(e.Failed, "failed", "ok"),
						e.Age(now).Truncate(time.Second).String(),
						expiryLabel(e, now),
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d entries in %s\n", len(rows), store.Path())
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable([]string{"Name", "Args", "Result", "Age", "Expires"}, rows, nil))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Only list entries memoized under this name")
	return cmd
}

func summarizeArgs(args []string) string {
	joined := strings.Join(args, " ")
	const limit = 80
	if runes := []rune(joined); len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return joined
}

func expiryLabel(e memo.Entry, now time.Time) string {
	switch {
	case e.ExpiresAt.IsZero():
		return "never"
	case e.Expired(now):
		return "expired"
	default:
		return "in " + e.ExpiresAt.Sub(now).Truncate(time.Second).String()
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMemo(true, func(store *memo.Store) error {
				removed, err := store.Prune(commandCtx(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMemo(true, func(store *memo.Store) error {
				removed, err := store.Clear(commandCtx(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
				return nil
			})
		},
	}
}
