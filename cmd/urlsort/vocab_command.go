package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"urlsort/internal/textutil"
	"urlsort/internal/vocab"
	"urlsort/internal/wordrank"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect the word lists used for scoring",
	}
	vocabCmd.AddCommand(newVocabShowCommand(ctx))
	vocabCmd.AddCommand(newVocabSourcesCommand(ctx))
	return vocabCmd
}

type namedRanker struct {
	name   string
	ranker *wordrank.Ranker
}

func rankers(v *vocab.Vocabulary) []namedRanker {
	return []namedRanker{
		{vocab.ListResolutions, v.Resolutions},
		{vocab.ListTags, v.Tags},
		{vocab.ListSearchTerms, v.SearchTerms},
	}
}

func newVocabShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [LIST]",
		Short: "Show ranked terms per list",
		Long: "Show the terms of each ranked list with their rank and tier. LIST is one of\n" +
			vocab.ListResolutions + ", " + vocab.ListTags + ", " + vocab.ListSearchTerms + ".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := ctx.vocabulary()
			if err != nil {
				return err
			}
			selected := rankers(v)
			if len(args) == 1 {
				idx := slices.IndexFunc(selected, func(n namedRanker) bool { return n.name == args[0] })
				if idx < 0 {
					return fmt.Errorf("unknown list %q", args[0])
				}
				selected = selected[idx : idx+1]
			}

			if asJSON {
				payload := make(map[string][]wordrank.Entry, len(selected))
				for _, n := range selected {
					payload[n.name] = n.ranker.Entries()
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			for i, n := range selected {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d terms, %d tiers)\n", n.name, n.ranker.Len(), n.ranker.Tiers())
				rows := make([][]string, 0, n.ranker.Len())
				for _, e := range n.ranker.Entries() {
					rows = append(rows, []string{strconv.Itoa(e.Tier + 1), e.Term, formatScore(e.Rank)})
				}
				fmt.Fprintln(out, renderTable([]string{"Tier", "Term", "Rank"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
			}
			if len(args) == 0 {
				fmt.Fprintf(out, "\n%d common words, release groups: %s\n",
					len(v.CommonWords()), strings.Join(v.ReleaseGroups(), " "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newVocabSourcesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show where each list was loaded from",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := ctx.vocabulary()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, 4)
			for _, src := range v.Sources() {
				rows = append(rows, []string{
					src.List,
					textutil.Ternary(src.Builtin(), "built-in", strings.Join(src.Paths, "\n")),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"List", "Source"}, rows, nil))
			fmt.Fprintf(out, "Digest: %s\n", v.Digest())
			return nil
		},
	}
}
