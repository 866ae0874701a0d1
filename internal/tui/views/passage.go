package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/tui/styles"
	"github.com/azyu/bibleview/pkg/types"
)

// PassageSetMsg carries a submitted passage. A nil Range clears it.
type PassageSetMsg struct {
	Range *types.ScriptureRange
}

// ClosePassageMsg asks the reader to leave the passage form.
type ClosePassageMsg struct{}

// PassageModel implements tea.Model for editing the saved passage.
type PassageModel struct {
	start textinput.Model
	end   textinput.Model
	focus int

	// errs holds one message per field ("start", "end").
	errs map[string]string
}

// NewPassage creates a passage form prefilled with r, which may be nil.
func NewPassage(r *types.ScriptureRange) *PassageModel {
	newInput := func(prompt, placeholder string) textinput.Model {
		in := textinput.New()
		in.Prompt = prompt
		in.Placeholder = placeholder
		in.CharLimit = 32
		in.Width = 24
		in.PromptStyle = styles.InputPrompt
		in.TextStyle = styles.InputText
		return in
	}

	m := &PassageModel{
		start: newInput("시작 구절: ", "창 1:1"),
		end:   newInput("끝 구절: ", "창 2:3"),
		errs:  map[string]string{},
	}
	if r != nil {
		m.start.SetValue(bible.FormatReference(r.Start))
		m.end.SetValue(bible.FormatReference(r.End))
	}
	m.start.Focus()
	return m
}

// Errors returns the current field errors.
func (m *PassageModel) Errors() map[string]string {
	return m.errs
}

// Init implements tea.Model.
func (m *PassageModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *PassageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return ClosePassageMsg{} }
		case "tab", "shift+tab", "up", "down":
			m.toggleFocus()
			return m, nil
		case "enter":
			if m.focus == 0 {
				m.toggleFocus()
				return m, nil
			}
			r, ok := m.Submit()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return PassageSetMsg{Range: r} }
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.start, cmd = m.start.Update(msg)
	} else {
		m.end, cmd = m.end.Update(msg)
	}
	return m, cmd
}

func (m *PassageModel) toggleFocus() {
	if m.focus == 0 {
		m.focus = 1
		m.start.Blur()
		m.end.Focus()
	} else {
		m.focus = 0
		m.end.Blur()
		m.start.Focus()
	}
}

// Submit parses and validates both fields. Two blank fields clear the
// passage. On failure the field errors are set and ok is false.
func (m *PassageModel) Submit() (r *types.ScriptureRange, ok bool) {
	m.errs = map[string]string{}

	startText := strings.TrimSpace(m.start.Value())
	endText := strings.TrimSpace(m.end.Value())
	if startText == "" && endText == "" {
		return nil, true
	}

	start, err := bible.ParseReference(startText)
	if err != nil {
		m.errs["start"] = fieldMessage(err)
	}
	end, err := bible.ParseReference(endText)
	if err != nil {
		m.errs["end"] = fieldMessage(err)
	}
	if len(m.errs) > 0 {
		return nil, false
	}

	rng := types.ScriptureRange{Start: start, End: end}
	if err := bible.ValidateRange(rng); err != nil {
		var re bible.RangeErrors
		if errors.As(err, &re) {
			m.SetErrors(re)
		} else {
			m.errs["end"] = err.Error()
		}
		return nil, false
	}
	return &rng, true
}

// SetErrors shows range errors under the start or end field they belong to.
// The first message per field wins.
func (m *PassageModel) SetErrors(errs bible.RangeErrors) {
	m.errs = map[string]string{}
	for _, ve := range errs {
		field, _, _ := strings.Cut(ve.Field, ".")
		if _, seen := m.errs[field]; !seen {
			m.errs[field] = ve.Message
		}
	}

	_, startBad := m.errs["start"]
	_, endBad := m.errs["end"]
	if (startBad && m.focus != 0) || (!startBad && endBad && m.focus != 1) {
		m.toggleFocus()
	}
}

func fieldMessage(err error) string {
	var ve *bible.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// View implements tea.Model.
func (m *PassageModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("본문 범위"))
	b.WriteString("\n\n")

	for _, field := range []struct {
		name  string
		input textinput.Model
	}{{"start", m.start}, {"end", m.end}} {
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msg, ok := m.errs[field.name]; ok {
			b.WriteString(styles.ErrorText.Render("  " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpDesc.Render("enter: 저장 • 빈 칸 저장: 해제 • esc: 취소"))
	return b.String()
}
