// Package tui provides the terminal user interface using Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/azyu/bibleview/internal/app"
	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/highlight"
	"github.com/azyu/bibleview/internal/navigation"
	"github.com/azyu/bibleview/internal/reader"
	"github.com/azyu/bibleview/internal/tui/styles"
	"github.com/azyu/bibleview/internal/tui/views"
	"github.com/azyu/bibleview/pkg/types"
)

// ViewState represents the current view mode.
type ViewState int

const (
	ViewReader ViewState = iota
	ViewSearch
	ViewGoto
	ViewPassage
	ViewRecent
	ViewHelp
)

// chromeHeight is the number of lines used by the header, status bar and help line.
const chromeHeight = 5

// Model is the main TUI model.
type Model struct {
	app       *app.App
	clipboard reader.Clipboard

	// View state
	view       ViewState
	width      int
	height     int
	ready      bool
	err        error
	statusText string
	loading    bool

	// Components
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model
	gotoInput textinput.Model
	search    *views.SearchModel
	passage   *views.PassageModel
	toast     Toast

	recentCursor int
	display      types.DisplayConfig
}

// New creates a reader model over a.
func New(a *app.App) *Model {
	settings := a.Settings()

	gi := textinput.New()
	gi.Prompt = "이동: "
	gi.Placeholder = "요 3:16"
	gi.CharLimit = 32
	gi.PromptStyle = styles.InputPrompt
	gi.TextStyle = styles.InputText

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	h := help.New()
	h.Styles.ShortKey = styles.HelpKey
	h.Styles.FullKey = styles.HelpKey
	h.Styles.ShortDesc = styles.HelpDesc
	h.Styles.FullDesc = styles.HelpDesc

	return &Model{
		app:       a,
		clipboard: reader.SystemClipboard{},
		view:      ViewReader,
		spinner:   sp,
		help:      h,
		gotoInput: gi,
		search:    views.NewSearch(a.Search, settings.Search.PageSize, settings.Lookup.Timeout),
		display:   settings.Display,
	}
}

// Init starts the spinner and opens the first verse.
func (m *Model) Init() tea.Cmd {
	if _, ok := m.app.Session.Current(); ok {
		return m.spinner.Tick
	}
	return tea.Batch(m.spinner.Tick, m.openInitial())
}

// openInitial opens the saved passage, or Genesis 1:1 when none is set.
func (m *Model) openInitial() tea.Cmd {
	return m.sessionCmd("open", func(ctx context.Context, s *reader.Session) error {
		if _, err := s.GotoPassage(ctx); !errors.Is(err, reader.ErrNoPassage) {
			return err
		}
		_, err := s.Open(ctx, types.VersePosition{BookID: bible.FirstBookID, Chapter: 1, Verse: 1})
		return err
	})
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.viewport.YPosition = 2
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.help.Width = msg.Width
		m.search.SetSize(msg.Width, msg.Height)
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearToastMsg:
		m.toast.Update(msg)
		return m, nil

	case sessionMsg:
		return m, m.handleSessionMsg(msg)

	case stepMsg:
		return m, m.handleStepMsg(msg)

	case displaySavedMsg:
		if msg.err != nil {
			m.app.Logger.Error("failed to save display settings", "error", msg.err)
			return m, m.toast.Show("설정을 저장하지 못했습니다", ToastError)
		}
		return m, nil

	case views.OpenVerseMsg:
		m.view = ViewReader
		return m, m.open(msg.Position)

	case views.CloseSearchMsg:
		m.view = ViewReader
		return m, nil

	case views.PassageSetMsg:
		// The form stays open until the save reply arrives.
		return m, m.savePassage(msg.Range)

	case views.ClosePassageMsg:
		m.view = ViewReader
		m.passage = nil
		return m, nil
	}

	// Remaining messages belong to the active view or to the search panel,
	// whose replies may arrive after it was closed.
	var cmd tea.Cmd
	switch m.view {
	case ViewGoto:
		m.gotoInput, cmd = m.gotoInput.Update(msg)
	case ViewPassage:
		if m.passage != nil {
			_, cmd = m.passage.Update(msg)
		}
	default:
		_, cmd = m.search.Update(msg)
	}
	return m, cmd
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.view {
	case ViewSearch:
		_, cmd := m.search.Update(msg)
		return m, cmd

	case ViewPassage:
		_, cmd := m.passage.Update(msg)
		return m, cmd

	case ViewGoto:
		return m.handleGotoKey(msg)

	case ViewRecent:
		return m.handleRecentKey(msg)

	case ViewHelp:
		m.view = ViewReader
		return m, nil
	}

	return m.handleReaderKey(msg)
}

func (m *Model) handleReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Alt && len(msg.Runes) == 1 {
		return m, m.versionKey(msg.Runes[0])
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Next):
		return m, m.step(navigation.Forward)

	case key.Matches(msg, keys.Prev):
		return m, m.step(navigation.Backward)

	case key.Matches(msg, keys.FontUp):
		return m, m.changeFontSize(types.FontSizeStep)

	case key.Matches(msg, keys.FontDown):
		return m, m.changeFontSize(-types.FontSizeStep)

	case key.Matches(msg, keys.ScrollUp):
		m.viewport.HalfViewUp()

	case key.Matches(msg, keys.ScrollDown):
		m.viewport.HalfViewDown()

	case key.Matches(msg, keys.Compare):
		return m, m.sessionCmd("compare", func(ctx context.Context, s *reader.Session) error {
			return s.ToggleCompare(ctx)
		})

	case key.Matches(msg, keys.CloseCompare):
		m.app.Session.CloseCompare()
		m.updateViewport()

	case key.Matches(msg, keys.Passage):
		return m, m.sessionCmd("passage", func(ctx context.Context, s *reader.Session) error {
			_, err := s.GotoPassage(ctx)
			return err
		})

	case key.Matches(msg, keys.EditPassage):
		m.passage = views.NewPassage(m.app.Session.State().Passage)
		m.view = ViewPassage
		return m, m.passage.Init()

	case key.Matches(msg, keys.Copy):
		return m, m.copyVerse()

	case key.Matches(msg, keys.Search):
		m.search.SetVersion(m.app.Session.Version())
		m.view = ViewSearch
		return m, m.search.Init()

	case key.Matches(msg, keys.Goto):
		m.gotoInput.SetValue("")
		m.gotoInput.Focus()
		m.view = ViewGoto
		return m, textinput.Blink

	case key.Matches(msg, keys.Recent):
		m.recentCursor = 0
		m.view = ViewRecent

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = true
		m.view = ViewHelp
	}

	return m, nil
}

func (m *Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.gotoInput.Blur()
		m.view = ViewReader
		return m, nil

	case tea.KeyEnter:
		pos, err := bible.ParseReference(m.gotoInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.gotoInput.Blur()
		m.view = ViewReader
		return m, m.open(pos)
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m *Model) handleRecentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recent := m.app.Session.Recent()

	switch msg.String() {
	case "esc", "H", "q":
		m.view = ViewReader
	case "up", "k":
		m.recentCursor = max(m.recentCursor-1, 0)
	case "down", "j":
		if m.recentCursor < len(recent)-1 {
			m.recentCursor++
		}
	case "enter":
		m.view = ViewReader
		if m.recentCursor < len(recent) {
			return m, m.open(recent[m.recentCursor].Position)
		}
	}
	return m, nil
}

// versionKey switches the reading version for a lowercase letter and sets
// the compared version for an uppercase one.
func (m *Model) versionKey(r rune) tea.Cmd {
	v, ok := bible.VersionForKey(r)
	if !ok {
		return nil
	}
	if r >= 'A' && r <= 'Z' {
		return m.sessionCmd("compare", func(ctx context.Context, s *reader.Session) error {
			return s.SetCompared(ctx, v)
		})
	}
	return m.sessionCmd("version", func(ctx context.Context, s *reader.Session) error {
		return s.SwitchVersion(ctx, v)
	})
}

func (m *Model) changeFontSize(delta int) tea.Cmd {
	size := types.ClampFontSize(m.display.FontSize + delta)
	if size == m.display.FontSize {
		return nil
	}
	m.display.FontSize = size
	m.updateViewport()
	return tea.Batch(
		m.saveDisplay(m.display),
		m.toast.Show(fmt.Sprintf("글자 크기 %d", size), ToastInfo),
	)
}

func (m *Model) copyVerse() tea.Cmd {
	text, err := m.app.Session.CopyTo(m.clipboard)
	if err != nil {
		m.app.Logger.Warn("copy failed", "error", err)
		return m.toast.Show("복사하지 못했습니다", ToastError)
	}
	m.app.Logger.Debug("copied verse", "text", text)
	return m.toast.Show("복사했습니다", ToastSuccess)
}

// updateViewport renders the open verse and the comparison panel.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderVerse(m.app.Session.State()))
}

func (m *Model) renderVerse(st reader.State) string {
	if st.Current == nil {
		return ""
	}

	width := max(m.viewport.Width, 20)
	body := styles.Verse(m.display).Width(width).Render(renderMarkup(st.Current.Text))
	if !st.CompareOpen {
		return body
	}

	compared := st.ComparedText
	if compared == "" {
		compared = styles.MutedText.Render("이 역본에는 해당 구절이 없습니다")
	} else {
		compared = renderMarkup(compared)
	}
	panel := styles.ComparePanel.Width(width).Render(
		styles.CompareLabel.Render(st.ComparedVersion.String()) + "\n" + compared,
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, panel)
}

// renderMarkup renders verse text with superscripts dimmed and line breaks kept.
func renderMarkup(text string) string {
	var b strings.Builder
	for _, piece := range highlight.ParseMarkup(text) {
		switch piece.Kind {
		case highlight.MarkupSup:
			b.WriteString(styles.Superscript.Render(piece.Text))
		case highlight.MarkupBreak:
			b.WriteString("\n")
		default:
			b.WriteString(piece.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// headerTitle renders a position as "요한복음 3장 16절 (개역한글)".
func headerTitle(pos types.VersePosition, v bible.Version) string {
	name := fmt.Sprintf("Book %d", pos.BookID)
	if book, ok := bible.BookByID(pos.BookID); ok {
		name = book.Name
	}
	return fmt.Sprintf("%s %d장 %d절 (%s)", name, pos.Chapter, pos.Verse, v)
}

// View renders the model.
func (m *Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var content string
	switch m.view {
	case ViewSearch:
		content = m.search.View()
	case ViewPassage:
		content = m.passage.View()
	case ViewRecent:
		content = m.renderRecent()
	case ViewHelp:
		content = m.renderHelp()
	default:
		content = m.renderReader()
	}

	return renderToastTopRight(m.toast.View(m.width), content, 1)
}

func (m *Model) renderReader() string {
	var b strings.Builder

	st := m.app.Session.State()
	title := "bibleview"
	if st.Current != nil {
		title = headerTitle(st.Current.Position, st.Version)
	}
	b.WriteString(styles.Header.Render(title))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.view == ViewGoto {
		b.WriteString(m.gotoInput.View())
	} else {
		b.WriteString(m.renderStatusBar(st))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(keys.ShortHelp()))

	return b.String()
}

func (m *Model) renderStatusBar(st reader.State) string {
	var parts []string

	if m.loading {
		parts = append(parts, m.spinner.View())
	}
	parts = append(parts,
		styles.StatusKey.Render("역본 ")+styles.StatusValue.Render(st.Version.String()),
		styles.StatusKey.Render("크기 ")+styles.StatusValue.Render(fmt.Sprint(m.display.FontSize)),
	)
	if st.Passage != nil {
		parts = append(parts, styles.StatusKey.Render("범위 ")+styles.StatusValue.Render(
			bible.FormatReference(st.Passage.Start)+" - "+bible.FormatReference(st.Passage.End)))
	}

	switch {
	case m.err != nil:
		parts = append(parts, styles.ErrorText.Render(errorText(m.err)))
	case m.statusText != "":
		parts = append(parts, styles.InfoText.Render(m.statusText))
	}

	return styles.StatusBar.Width(max(m.width, 1)).Render(strings.Join(parts, " │ "))
}

func (m *Model) renderRecent() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("최근 구절"))
	b.WriteString("\n\n")

	recent := m.app.Session.Recent()
	if len(recent) == 0 {
		b.WriteString(styles.MutedText.Render("  최근에 읽은 구절이 없습니다"))
	}
	for i, v := range recent {
		line := styles.Reference.Render(v.Reference()) + " " + v.PlainText()
		style := styles.ListItem
		if i == m.recentCursor {
			style = styles.SelectedItem
		}
		b.WriteString(style.Width(max(styles.Width(m.width), 20)).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpDesc.Render("enter: 열기 • esc: 닫기"))
	return b.String()
}

func (m *Model) renderHelp() string {
	return styles.Title.Render("도움말") + "\n\n" +
		m.help.FullHelpView(keys.FullHelp()) + "\n\n" +
		styles.HelpDesc.Render("아무 키나 누르면 돌아갑니다")
}

// errorText renders an error for the status bar.
func errorText(err error) string {
	var ve *bible.ValidationError
	var re bible.RangeErrors
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &re) && len(re) > 0:
		return re[0].Message
	case errors.Is(err, navigation.ErrEmptyChapter):
		return "빈 장으로는 이동할 수 없습니다"
	case errors.Is(err, bible.ErrNotFound):
		return "구절을 찾을 수 없습니다"
	case errors.Is(err, reader.ErrNoPassage):
		return "본문 범위가 설정되지 않았습니다"
	case errors.Is(err, context.DeadlineExceeded):
		return "응답 시간이 초과되었습니다"
	}
	return err.Error()
}
