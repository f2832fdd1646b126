package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"urlsort/internal/batch"
	"urlsort/internal/logging"
	"urlsort/internal/memo"
	"urlsort/internal/ranking"
	"urlsort/internal/urlrecord"
)

const (
	formatM3U   = "m3u"
	formatTable = "table"
	formatJSON  = "json"
)

var outputFormats = []string{formatM3U, formatTable, formatJSON}

type rankOptions struct {
	by     string
	format string
}

func bindRankFlags(cmd *cobra.Command, opts *rankOptions) {
	cmd.Flags().StringVarP(&opts.by, "by", "b", "", "Sort key: "+strings.Join(ranking.PolicyNames(), ", ")+" (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatM3U, "Output format: "+strings.Join(outputFormats, ", "))
}

func newRankCommand(ctx *commandContext) *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank [FILE|DIR ...]",
		Short: "Rank URLs read from files, directories, or stdin",
		Long: "Rank URLs read from the given files, from the *.list and *.txt files of\n" +
			"the given directories, or from stdin when no argument is given ('-' also\n" +
			"names stdin). Malformed lines are reported and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, ctx, opts, args)
		},
	}
	bindRankFlags(cmd, opts)
	return cmd
}

func runRank(cmd *cobra.Command, ctx *commandContext, opts *rankOptions, args []string) error {
	policy, err := ctx.policy(opts.by)
	if err != nil {
		return err
	}
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	lines, err := batch.Read(commandCtx(cmd), args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	return ctx.withMemo(false, func(store *memo.Store) error {
		return rankLines(cmd, ctx, store, lines, policy, opts.format)
	})
}

func validateFormat(format string) error {
	for _, f := range outputFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(outputFormats, ", "))
}

type scoredBatch struct {
	records []ranking.Scored
	skipped []*urlrecord.ParseError
}

// rankLines tokenizes, ranks, and writes lines in format.
func rankLines(cmd *cobra.Command, ctx *commandContext, store *memo.Store, lines []batch.Line, policy ranking.Policy, format string) error {
	scored, err := scoreLines(cmd, ctx, store, lines, policy)
	if err != nil {
		return err
	}
	return writeRanked(cmd, policy, scored.records, scored.skipped, format)
}

func scoreLines(cmd *cobra.Command, ctx *commandContext, store *memo.Store, lines []batch.Line, policy ranking.Policy) (scoredBatch, error) {
	tokenizer, err := ctx.tokenizer(store)
	if err != nil {
		return scoredBatch{}, err
	}
	res, err := tokenizer.Tokenize(commandCtx(cmd), lines)
	if err != nil {
		return scoredBatch{}, err
	}
	engine, err := ctx.engine()
	if err != nil {
		return scoredBatch{}, err
	}
	scored, err := engine.RankScored(res.Records, policy)
	if err != nil {
		return scoredBatch{}, err
	}
	ctx.loggerValue().Info("ranked batch",
		logging.String("policy", policy.String()),
		logging.Int("records", len(scored)),
		logging.Int("skipped", len(res.Skipped)),
	)
	return scoredBatch{records: scored, skipped: res.Skipped}, nil
}

func writeRanked(cmd *cobra.Command, policy ranking.Policy, scored []ranking.Scored, skipped []*urlrecord.ParseError, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(cmd, newRankPayload(policy, scored, skipped))
	case formatTable:
		fmt.Fprintln(cmd.OutOrStdout(), renderScoredTable(scored))
		return nil
	default:
		return writeM3U(cmd.OutOrStdout(), scored)
	}
}
