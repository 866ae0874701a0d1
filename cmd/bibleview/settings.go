package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/azyu/bibleview/internal/app"
	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/pkg/types"
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Show, set or clear the saved passage range",
}

var rangeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved passage range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := app.NewConfigManager()
		if err != nil {
			return err
		}
		config, err := cm.LoadGlobalConfig()
		if err != nil {
			return err
		}

		if config.Passage == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No passage set.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatRange(*config.Passage))
		return nil
	},
}

var rangeSetCmd = &cobra.Command{
	Use:   "set [<start> <end>]",
	Short: "Save the passage range, e.g. range set \"창 1:1\" \"창 2:3\"",
	Long: `Save the passage range opened with ctrl+g in the reader. Without
arguments an interactive form asks for both ends.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		var start, end string
		switch len(args) {
		case 2:
			start, end = args[0], args[1]
		case 0:
			if start, end, err = runRangeForm(application.Config); err != nil {
				return err
			}
		default:
			return fmt.Errorf("expected a start and an end reference")
		}

		r, err := parseRange(start, end)
		if err != nil {
			return err
		}
		ctx, cancel := application.WithTimeout(cmd.Context())
		defer cancel()
		if err := application.SavePassage(ctx, &r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Passage set: %s\n", formatRange(r))
		return nil
	},
}

var rangeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved passage range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := app.NewConfigManager()
		if err != nil {
			return err
		}
		if err := cm.SetPassage(nil); err != nil {
			return fmt.Errorf("failed to clear passage: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Passage cleared.")
		return nil
	},
}

func init() {
	rangeCmd.AddCommand(rangeShowCmd)
	rangeCmd.AddCommand(rangeSetCmd)
	rangeCmd.AddCommand(rangeClearCmd)
}

// parseRange parses both ends of a passage and validates the range.
func parseRange(start, end string) (types.ScriptureRange, error) {
	s, err := bible.ParseReference(start)
	if err != nil {
		return types.ScriptureRange{}, fmt.Errorf("start: %w", err)
	}
	e, err := bible.ParseReference(end)
	if err != nil {
		return types.ScriptureRange{}, fmt.Errorf("end: %w", err)
	}

	r := types.ScriptureRange{Start: s, End: e}
	if err := bible.ValidateRange(r); err != nil {
		return types.ScriptureRange{}, err
	}
	return r, nil
}

func formatRange(r types.ScriptureRange) string {
	return bible.FormatReference(r.Start) + " - " + bible.FormatReference(r.End)
}

func validateReference(s string) error {
	_, err := bible.ParseReference(s)
	return err
}

// runRangeForm asks for both ends of the passage, prefilled with the saved one.
func runRangeForm(cm *app.ConfigManager) (string, string, error) {
	config, err := cm.LoadGlobalConfig()
	if err != nil {
		return "", "", err
	}

	var start, end string
	if config.Passage != nil {
		start = bible.FormatReference(config.Passage.Start)
		end = bible.FormatReference(config.Passage.End)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("시작 구절").
				Placeholder("창 1:1").
				Validate(validateReference).
				Value(&start),
			huh.NewInput().
				Title("끝 구절").
				Placeholder("창 2:3").
				Validate(validateReference).
				Value(&end),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", "", fmt.Errorf("cancelled")
		}
		return "", "", fmt.Errorf("range form failed: %w", err)
	}
	return start, end, nil
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit display and reading settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCmd,
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func validateColor(s string) error {
	if !hexColor.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("use a hex color such as #1e293b")
	}
	return nil
}

func validateFontSize(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n < types.MinFontSize || n > types.MaxFontSize {
		return fmt.Errorf("font size must be between %d and %d", types.MinFontSize, types.MaxFontSize)
	}
	return nil
}

func validatePadding(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a number of pixels, 0 or more")
	}
	return nil
}

// settingsForm holds the form's string fields.
type settingsForm struct {
	version    string
	fontSize   string
	fontColor  string
	background string
	fontFamily string
	padding    string
}

func newSettingsForm(c *types.GlobalConfig) settingsForm {
	return settingsForm{
		version:    c.DefaultVersion,
		fontSize:   strconv.Itoa(c.Display.FontSize),
		fontColor:  c.Display.FontColor,
		background: c.Display.BackgroundColor,
		fontFamily: c.Display.FontFamily,
		padding:    strconv.Itoa(c.Display.PaddingX),
	}
}

// apply copies validated form values into c.
func (f settingsForm) apply(c *types.GlobalConfig) error {
	size, err := strconv.Atoi(strings.TrimSpace(f.fontSize))
	if err != nil {
		return fmt.Errorf("font size: %w", err)
	}
	padding, err := strconv.Atoi(strings.TrimSpace(f.padding))
	if err != nil {
		return fmt.Errorf("padding: %w", err)
	}
	if _, err := bible.ParseVersion(f.version); err != nil {
		return err
	}

	c.DefaultVersion = f.version
	c.Display.FontSize = types.ClampFontSize(size)
	c.Display.FontColor = strings.TrimSpace(f.fontColor)
	c.Display.BackgroundColor = strings.TrimSpace(f.background)
	c.Display.FontFamily = strings.TrimSpace(f.fontFamily)
	c.Display.PaddingX = padding
	return nil
}

func runSettingsCmd(cmd *cobra.Command, args []string) error {
	cm, err := app.NewConfigManager()
	if err != nil {
		return err
	}
	config, err := cm.LoadGlobalConfig()
	if err != nil {
		return err
	}

	f := newSettingsForm(config)

	versionOptions := make([]huh.Option[string], 0, len(bible.Versions()))
	for _, v := range bible.Versions() {
		versionOptions = append(versionOptions, huh.NewOption(v.String(), v.String()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("기본 역본").
				Options(versionOptions...).
				Value(&f.version),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("글자 크기").
				Description(fmt.Sprintf("%d - %d", types.MinFontSize, types.MaxFontSize)).
				Validate(validateFontSize).
				Value(&f.fontSize),
			huh.NewInput().
				Title("글자 색").
				Validate(validateColor).
				Value(&f.fontColor),
			huh.NewInput().
				Title("배경 색").
				Validate(validateColor).
				Value(&f.background),
			huh.NewInput().
				Title("글꼴").
				Value(&f.fontFamily),
			huh.NewInput().
				Title("좌우 여백 (px)").
				Validate(validatePadding).
				Value(&f.padding),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Settings unchanged.")
			return nil
		}
		return fmt.Errorf("settings form failed: %w", err)
	}

	if _, err := cm.UpdateGlobalConfig(f.apply); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Settings saved to %s\n", cm.Path())
	return nil
}
