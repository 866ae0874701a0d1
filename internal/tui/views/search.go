// Package views provides TUI view components for the reader.
package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/highlight"
	"github.com/azyu/bibleview/internal/search"
	"github.com/azyu/bibleview/internal/tui/styles"
	"github.com/azyu/bibleview/pkg/types"
)

// KeywordFields is the number of keyword inputs.
const KeywordFields = 3

const (
	fieldStartBook = KeywordFields + iota
	fieldEndBook
	focusResults
	focusCount
)

// Searcher runs counted, paged keyword searches.
type Searcher interface {
	Count(ctx context.Context, q search.Query) (int, error)
	Search(ctx context.Context, q search.Query) ([]types.SearchResult, error)
}

// OpenVerseMsg asks the reader to open a search result.
type OpenVerseMsg struct {
	Position types.VersePosition
}

// CloseSearchMsg asks the reader to leave the search view.
type CloseSearchMsg struct{}

type searchCountMsg struct {
	seq   int
	query search.Query
	total int
	err   error
}

type searchPageMsg struct {
	seq     int
	results []types.SearchResult
	err     error
}

// SearchModel implements tea.Model for the keyword search panel.
type SearchModel struct {
	searcher Searcher
	timeout  time.Duration
	pageSize int
	version  bible.Version

	inputs []textinput.Model
	focus  int

	// seq identifies the latest submitted query; replies for older
	// queries are dropped.
	seq      int
	keywords []string
	pager    *search.Pager
	results  []types.SearchResult
	cursor   int
	loading  bool
	err      error

	width  int
	height int
}

// NewSearch creates a search panel backed by searcher.
func NewSearch(searcher Searcher, pageSize int, timeout time.Duration) *SearchModel {
	placeholders := []string{"하나님", "사랑", "", "창", "계"}
	inputs := make([]textinput.Model, focusResults)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.PromptStyle = styles.InputPrompt
		in.TextStyle = styles.InputText
		if i < KeywordFields {
			in.Prompt = fmt.Sprintf("검색어 %d: ", i+1)
			in.CharLimit = 40
			in.Width = 20
		} else {
			in.CharLimit = 8
			in.Width = 6
		}
		inputs[i] = in
	}
	inputs[fieldStartBook].Prompt = "시작: "
	inputs[fieldEndBook].Prompt = "끝: "
	inputs[0].Focus()

	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	return &SearchModel{
		searcher: searcher,
		timeout:  timeout,
		pageSize: pageSize,
		version:  bible.DefaultVersion,
		inputs:   inputs,
	}
}

// SetVersion sets the version searched by the next query.
func (m *SearchModel) SetVersion(v bible.Version) {
	m.version = v
}

// SetSize sets the panel dimensions.
func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range KeywordFields {
		m.inputs[i].Width = max(width/4, 10)
	}
}

// Results returns the results loaded so far.
func (m *SearchModel) Results() []types.SearchResult {
	return m.results
}

// Total returns the match count of the current query, or 0 before a search.
func (m *SearchModel) Total() int {
	if m.pager == nil {
		return 0
	}
	return m.pager.Total()
}

// Err returns the last search error.
func (m *SearchModel) Err() error {
	return m.err
}

// Loading reports whether a count or page request is in flight.
func (m *SearchModel) Loading() bool {
	return m.loading
}

// Init implements tea.Model.
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchCountMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.pager = search.NewPager(msg.query, msg.total)
		return m, m.loadMore()

	case searchPageMsg:
		if msg.seq != m.seq || m.pager == nil {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.pager.Fail()
			m.err = msg.err
			return m, nil
		}
		m.pager.Done(msg.results)
		m.results = m.pager.Results()
		return m, nil
	}

	if m.focus < focusResults {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *SearchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return CloseSearchMsg{} }

	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case "enter":
		if m.focus == focusResults {
			if m.cursor < len(m.results) {
				pos := m.results[m.cursor].Position()
				return m, func() tea.Msg { return OpenVerseMsg{Position: pos} }
			}
			return m, nil
		}
		return m, m.Submit()
	}

	if m.focus == focusResults {
		switch msg.String() {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			if m.cursor >= len(m.results)-1 {
				return m, m.loadMore()
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *SearchModel) setFocus(i int) {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	if i < focusResults {
		m.inputs[i].Focus()
	}
}

// Submit starts a new search from the current inputs. Replies to any earlier
// search are dropped from then on.
func (m *SearchModel) Submit() tea.Cmd {
	q, err := m.query()
	if err != nil {
		m.err = err
		return nil
	}

	m.seq++
	m.keywords = q.Keywords
	m.err = nil
	m.pager = nil
	m.results = nil
	m.cursor = 0
	m.loading = true

	seq, searcher, timeout := m.seq, m.searcher, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		total, err := searcher.Count(ctx, q)
		return searchCountMsg{seq: seq, query: q, total: total, err: err}
	}
}

// loadMore requests the next page. It returns nil while a page is in flight
// or once every match is loaded.
func (m *SearchModel) loadMore() tea.Cmd {
	if m.pager == nil {
		return nil
	}
	q, ok := m.pager.Next()
	if !ok {
		m.loading = false
		return nil
	}
	m.loading = true

	seq, searcher, timeout := m.seq, m.searcher, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		results, err := searcher.Search(ctx, q)
		return searchPageMsg{seq: seq, results: results, err: err}
	}
}

// query builds a query from the inputs. Book fields take abbreviations and
// default to the whole canon when blank. An unknown book is cleared and its
// field focused; blank keywords focus the first keyword field.
func (m *SearchModel) query() (search.Query, error) {
	keywords := make([]string, KeywordFields)
	for i := range KeywordFields {
		keywords[i] = m.inputs[i].Value()
	}

	start, err := bookField(m.inputs[fieldStartBook].Value(), bible.FirstBookID)
	if err != nil {
		return search.Query{}, m.reject(fieldStartBook, err)
	}
	end, err := bookField(m.inputs[fieldEndBook].Value(), bible.LastBookID)
	if err != nil {
		return search.Query{}, m.reject(fieldEndBook, err)
	}

	q := search.Query{
		Version:  m.version,
		Keywords: keywords,
		Options:  search.DefaultOptions().WithRange(start, end).WithLimit(m.pageSize),
	}
	if err := q.Validate(); err != nil {
		m.setFocus(0)
		return search.Query{}, err
	}
	return q, nil
}

func (m *SearchModel) reject(field int, err error) error {
	m.inputs[field].SetValue("")
	m.setFocus(field)
	return err
}

func bookField(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	book, ok := bible.FindBookByAbbr(value)
	if !ok {
		book, ok = bible.FindBook(value)
	}
	if !ok {
		return 0, &bible.ValidationError{Field: "book", Message: fmt.Sprintf("알 수 없는 책입니다: %q", value)}
	}
	return book.ID, nil
}

// View implements tea.Model.
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("검색"))
	b.WriteString("\n\n")
	for i := range KeywordFields {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString(m.inputs[fieldStartBook].View())
	b.WriteString("  ")
	b.WriteString(m.inputs[fieldEndBook].View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorText.Render(searchErrorText(m.err)))
		b.WriteString("\n")
	case m.pager != nil:
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d건 중 %d건", m.pager.Total(), len(m.results))))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(styles.MutedText.Render("검색 중..."))
		b.WriteString("\n")
	}

	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(styles.HelpDesc.Render("tab: 이동 • enter: 검색/열기 • esc: 닫기"))
	return b.String()
}

func (m *SearchModel) renderResults() string {
	if len(m.results) == 0 {
		return ""
	}

	rows := max(m.height-14, 3)
	first := 0
	if m.cursor >= rows {
		first = m.cursor - rows + 1
	}
	last := min(first+rows, len(m.results))

	width := max(styles.Width(m.width), 20)
	var lines []string
	for i := first; i < last; i++ {
		r := m.results[i]
		line := styles.Reference.Render(bible.FormatReference(r.Position())) + " " +
			RenderHighlighted(highlight.StripMarkup(r.Text), m.keywords)
		style := styles.ListItem
		if m.focus == focusResults && i == m.cursor {
			style = styles.SelectedItem
		}
		lines = append(lines, style.Width(width).Render(line))
	}
	if m.pager != nil && m.pager.HasMore() {
		lines = append(lines, styles.MutedText.Render("  ↓ 더 보기"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderHighlighted styles each keyword match in text with its keyword color.
func RenderHighlighted(text string, keywords []string) string {
	var b strings.Builder
	for _, seg := range highlight.Highlight(text, keywords) {
		if seg.Matched {
			b.WriteString(styles.Keyword(seg.KeywordIndex).Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func searchErrorText(err error) string {
	switch {
	case errors.Is(err, search.ErrNoKeywords):
		return "검색어를 입력하세요"
	case errors.Is(err, context.DeadlineExceeded):
		return "검색 시간이 초과되었습니다"
	}
	var ve *bible.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
