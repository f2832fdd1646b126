package main

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"urlsort/internal/batch"
	"urlsort/internal/logging"
	"urlsort/internal/memo"
	"urlsort/internal/paste"
	"urlsort/internal/ranking"
	"urlsort/internal/urlrecord"
)

func newPasteCommand(ctx *commandContext) *cobra.Command {
	pasteCmd := &cobra.Command{
		Use:   "paste",
		Short: "Fetch and sort pastes",
	}
	pasteCmd.AddCommand(newPasteFetchCommand(ctx))
	pasteCmd.AddCommand(newPasteLinksCommand(ctx))
	return pasteCmd
}

type pasteOutputs struct {
	list   string
	text   string
	m3u    string
	m3uAge int
	onion  string
}

func newPasteFetchCommand(ctx *commandContext) *cobra.Command {
	opts := &rankOptions{}
	outputs := &pasteOutputs{}
	var showAll bool
	cmd := &cobra.Command{
		Use:   "fetch KEY...",
		Short: "Fetch pastes, classify them, and rank the URL lists",
		Long: "Fetch each paste, classify its contents, and rank the URLs of every paste\n" +
			"classified as a URL list. Playlists and onion link pastes are reported and\n" +
			"can be written to files. Keys may also be paste page URLs.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := ctx.policy(opts.by)
			if err != nil {
				return err
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if outputs.m3uAge < 0 {
				return fmt.Errorf("--m3u-age must be >= 0, got %d", outputs.m3uAge)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()
			classifier := paste.NewClassifier(cfg.Paste.Stopwords, paste.DefaultListMarkers)

			return ctx.withMemo(false, func(store *memo.Store) error {
				client, err := ctx.pasteClient(store)
				if err != nil {
					return err
				}
				var (
					contents paste.Contents
					failures int
				)
				for _, arg := range args {
					key := arg
					if k, ok := paste.KeyFromURL(arg, client.Host()); ok {
						key = k
					}
					p, err := client.Get(commandCtx(cmd), key)
					if err != nil {
						if ctxErr := commandCtx(cmd).Err(); ctxErr != nil {
							return ctxErr
						}
						failures++
						logging.WarnWithContext(logger, "paste fetch failed", "paste_fetch_failed",
							logging.String("key", key),
							logging.String(logging.FieldErrorHint, "check the key and the paste host"),
							logging.String(logging.FieldImpact, "paste skipped"),
							logging.Error(err),
						)
						continue
					}
					verdict := classifier.Classify(p.Lines)
					logger.Info("paste classified",
						logging.String("key", key),
						logging.String("kind", verdict.Kind.String()),
						logging.Int("line", verdict.Line),
						logging.String("match", verdict.Match),
					)
					contents.Add(verdict.Kind, p)
					if showAll || verdict.Kind.Keep() {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s\t%s\n", client.PageURL(key), verdict.Kind)
					}
				}
				if failures == len(args) {
					return fmt.Errorf("all %d paste fetches failed", failures)
				}

				var urlLines []batch.Line
				for _, list := range contents.URLLists {
					urlLines = append(urlLines, batch.ReadText(strings.Join(list.Lines, "\n"), list.Key)...)
				}
				for i := range urlLines {
					urlLines[i].Ordinal = i + 1
				}
				scored, err := scoreLines(cmd, ctx, store, urlLines, policy)
				if err != nil {
					return err
				}
				if err := writeRanked(cmd, policy, scored.records, scored.skipped, opts.format); err != nil {
					return err
				}
				return writePasteOutputs(outputs, &contents, scored.records, ctx.now())
			})
		},
	}
	bindRankFlags(cmd, opts)
	cmd.Flags().BoolVar(&showAll, "all", false, "Report every paste's verdict, not only kept ones")
	cmd.Flags().StringVar(&outputs.list, "list", "", "Write the ranked URLs in input order to this file")
	cmd.Flags().StringVar(&outputs.text, "text", "", "Write the ranked URLs as commented blocks to this file")
	cmd.Flags().StringVar(&outputs.m3u, "m3u", "", "Write fresh playlists, newest first, to this file")
	cmd.Flags().IntVar(&outputs.m3uAge, "m3u-age", 8, "Playlists fetched more than this many hours ago are expired (0 keeps all)")
	cmd.Flags().StringVar(&outputs.onion, "onion", "", "Write pastes with .onion links to this file")
	return cmd
}

// writePasteOutputs writes each requested output file. Files are written even
// when empty so a run always replaces the previous one.
func writePasteOutputs(outputs *pasteOutputs, contents *paste.Contents, scored []ranking.Scored, now time.Time) error {
	if outputs.list != "" {
		inOrder := slices.Clone(scored)
		slices.SortFunc(inOrder, func(a, b ranking.Scored) int { return cmp.Compare(a.Ordinal, b.Ordinal) })
		lines := make([]string, len(inOrder))
		for i, s := range inOrder {
			lines[i] = s.Line
		}
		if err := writeOutputFile(outputs.list, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}
	if outputs.text != "" {
		records := make([]urlrecord.Record, len(scored))
		for i, s := range scored {
			records[i] = s.Record
		}
		if err := writeOutputFile(outputs.text, urlrecord.RenderAll(records)); err != nil {
			return err
		}
	}
	if outputs.m3u != "" {
		playlists := contents.FreshPlaylists(now, time.Duration(outputs.m3uAge)*time.Hour)
		blocks := make([]string, len(playlists))
		for i, p := range playlists {
			blocks[i] = strings.Join(p.Lines, "\n")
		}
		if err := writeOutputFile(outputs.m3u, strings.Join(blocks, "\n\n")); err != nil {
			return err
		}
	}
	if outputs.onion != "" {
		blocks := make([]string, len(contents.Onion))
		for i, p := range contents.Onion {
			blocks[i] = strings.Join(p.Lines, "\n")
		}
		if err := writeOutputFile(outputs.onion, strings.Join(blocks, "\n\n")); err != nil {
			return err
		}
	}
	return nil
}

func writeOutputFile(path, text string) error {
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func newPasteLinksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "links FILE",
		Short: "List paste keys linked from a saved alert e-mail HTML body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.pasteClient(nil)
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open alert: %w", err)
			}
			defer file.Close()
			keys, err := paste.ExtractAlertLinks(file, client.Host())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range keys {
				fmt.Fprintln(out, key)
			}
			ctx.loggerValue().Debug("alert links extracted",
				logging.Int("count", len(keys)),
				logging.String("paste_host", cfg.Paste.BaseURL),
			)
			return nil
		},
	}
}
