// Package main is the entry point for bibleview.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/azyu/bibleview/internal/app"
	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/highlight"
	"github.com/azyu/bibleview/internal/search"
	"github.com/azyu/bibleview/internal/storage"
	"github.com/azyu/bibleview/internal/tui"
	"github.com/azyu/bibleview/internal/tui/views"
	"github.com/azyu/bibleview/pkg/types"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibleview",
	Short: "A keyboard-driven scripture reader for the terminal",
	Long: `Bibleview reads Bible verses from local version databases. It steps
through verses across chapter and book boundaries, compares versions side by
side and searches for verses containing every given keyword.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.LoadEnv(".env")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// openApp initializes the application and applies the --bible flag.
func openApp(cmd *cobra.Command) (*app.App, error) {
	application, err := app.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	if name, _ := cmd.Flags().GetString("bible"); name != "" {
		v, err := bible.ParseVersion(name)
		if err != nil {
			application.Close()
			return nil, err
		}
		if err := application.Session.SwitchVersion(cmd.Context(), v); err != nil {
			application.Close()
			return nil, err
		}
	}
	return application, nil
}

var readCmd = &cobra.Command{
	Use:   "read <reference>",
	Short: "Print a verse, e.g. \"요 3:16\"",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := bible.ParseReference(strings.Join(args, " "))
		if err != nil {
			return err
		}

		application, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, cancel := application.WithTimeout(cmd.Context())
		defer cancel()

		if compare, _ := cmd.Flags().GetString("compare"); compare != "" {
			v, err := bible.ParseVersion(compare)
			if err != nil {
				return err
			}
			if err := application.Session.SetCompared(ctx, v); err != nil {
				return err
			}
		}

		if _, err := application.Session.Open(ctx, pos); err != nil {
			return fmt.Errorf("failed to read %s: %w", bible.FormatReference(pos), err)
		}
		text, _ := application.Session.CopyText()
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var chapterCmd = &cobra.Command{
	Use:   "chapter <book> <chapter>",
	Short: "Print every verse of a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, ok := bible.FindBook(args[0])
		if !ok {
			return fmt.Errorf("unknown book %q", args[0])
		}
		chapter, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid chapter %q", args[1])
		}
		if err := bible.CheckPosition(types.VersePosition{BookID: book.ID, Chapter: chapter, Verse: 1}); err != nil {
			return err
		}

		application, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, cancel := application.WithTimeout(cmd.Context())
		defer cancel()

		v := application.Session.Version()
		verses, err := application.Store.GetChapter(ctx, v, book.ID, chapter)
		if err != nil {
			return err
		}
		if len(verses) == 0 {
			return &bible.NotFoundError{Resource: "chapter", ID: fmt.Sprintf("%s %d", book.Name, chapter)}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %d장 (%s)\n\n", book.Name, chapter, v)
		for _, verse := range verses {
			fmt.Fprintf(out, "%3d  %s\n", verse.Verse, highlight.StripMarkup(verse.Text))
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>...",
	Short: "Find verses containing every keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		countOnly, _ := cmd.Flags().GetBool("count")

		startBook, endBook, err := bookRange(from, to)
		if err != nil {
			return err
		}

		application, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, cancel := application.WithTimeout(cmd.Context())
		defer cancel()

		q := search.Query{
			Version:  application.Session.Version(),
			Keywords: args,
			Options:  search.DefaultOptions().WithRange(startBook, endBook).WithLimit(limit).WithOffset(offset),
		}
		if err := q.Validate(); err != nil {
			return err
		}

		total, err := application.Search.Count(ctx, q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if countOnly {
			fmt.Fprintln(out, total)
			return nil
		}

		results, err := application.Search.Search(ctx, q)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintln(out, formatResult(r, args))
		}
		fmt.Fprintf(out, "\n%d건 중 %d-%d\n", total, min(q.Offset+1, total), q.Offset+len(results))
		return nil
	},
}

// bookRange resolves --from and --to book names. Blank values cover the whole canon.
func bookRange(from, to string) (int, int, error) {
	resolve := func(name string, fallback int) (int, error) {
		if strings.TrimSpace(name) == "" {
			return fallback, nil
		}
		book, ok := bible.FindBook(name)
		if !ok {
			return 0, fmt.Errorf("unknown book %q", name)
		}
		return book.ID, nil
	}

	start, err := resolve(from, bible.FirstBookID)
	if err != nil {
		return 0, 0, err
	}
	end, err := resolve(to, bible.LastBookID)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func formatResult(r types.SearchResult, keywords []string) string {
	return bible.FormatReference(r.Position()) + "  " +
		views.RenderHighlighted(highlight.StripMarkup(r.Text), keywords)
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List Bible versions and whether they are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New()
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer application.Close()

		installed, err := application.Store.Versions()
		if err != nil {
			return err
		}
		have := make(map[bible.Version]bool, len(installed))
		for _, v := range installed {
			have[v] = true
		}

		out := cmd.OutOrStdout()
		current := application.Session.Version()
		for _, v := range bible.Versions() {
			mark := " "
			if have[v] {
				mark = "✓"
			}
			def := ""
			if v == current {
				def = " (default)"
			}
			fmt.Fprintf(out, "%s alt+%c  %s%s\n", mark, v.Key(), v, def)
		}
		fmt.Fprintf(out, "\ndata: %s\n", application.Store.DataDir())
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <version> <file.tsv>",
	Short: "Build a version database from a book/chapter/verse/text TSV file",
	Long: `Import reads tab-separated lines of book number, chapter, verse and text
and replaces the version's database with them. Use '-' to read from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := bible.ParseVersion(args[0])
		if err != nil {
			return err
		}

		var r io.Reader = os.Stdin
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[1], err)
			}
			defer f.Close()
			r = f
		}

		records, err := storage.ReadTSV(r)
		if err != nil {
			return err
		}

		application, err := app.New()
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer application.Close()

		n, err := application.Store.ImportVersion(cmd.Context(), v, records)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", v, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d verses into %s (%s)\n", n, v, application.Store.Path(v))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{readCmd, chapterCmd, searchCmd, rangeSetCmd} {
		c.Flags().StringP("bible", "b", "", "Version to read, e.g. 개역개정 (default from config)")
	}
	readCmd.Flags().StringP("compare", "c", "", "Also print the verse in this version")

	searchCmd.Flags().String("from", "", "First book of the search range (name or abbreviation)")
	searchCmd.Flags().String("to", "", "Last book of the search range (name or abbreviation)")
	searchCmd.Flags().IntP("limit", "n", search.DefaultPageSize, "Maximum results to print (-1 for all)")
	searchCmd.Flags().Int("offset", 0, "Number of results to skip")
	searchCmd.Flags().Bool("count", false, "Print only the number of matches")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(chapterCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(importCmd)
}

func runTUI() error {
	application, err := app.New()
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer application.Close()

	model := tui.New(application)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
