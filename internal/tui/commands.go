package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/navigation"
	"github.com/azyu/bibleview/internal/reader"
	"github.com/azyu/bibleview/pkg/types"
)

// sessionMsg reports a finished session operation.
type sessionMsg struct {
	action string
	err    error
}

// stepMsg carries a resolved navigation step.
type stepMsg struct {
	res reader.StepResult
}

type displaySavedMsg struct {
	err error
}

// sessionCmd runs fn off the update loop with the lookup timeout applied.
func (m *Model) sessionCmd(action string, fn func(ctx context.Context, s *reader.Session) error) tea.Cmd {
	m.loading = true
	a := m.app
	return func() tea.Msg {
		ctx, cancel := a.WithTimeout(context.Background())
		defer cancel()
		return sessionMsg{action: action, err: fn(ctx, a.Session)}
	}
}

func (m *Model) open(pos types.VersePosition) tea.Cmd {
	return m.sessionCmd("open", func(ctx context.Context, s *reader.Session) error {
		_, err := s.Open(ctx, pos)
		return err
	})
}

// step issues a navigation step from the last applied position. Steps are
// not debounced: each key press resolves on its own and only the newest
// result is applied.
func (m *Model) step(dir navigation.Direction) tea.Cmd {
	gen, from, err := m.app.Session.BeginStep()
	if err != nil {
		m.err = err
		return nil
	}

	a := m.app
	return func() tea.Msg {
		ctx, cancel := a.WithTimeout(context.Background())
		defer cancel()
		return stepMsg{res: a.Session.ResolveStep(ctx, gen, from, dir)}
	}
}

func (m *Model) savePassage(r *types.ScriptureRange) tea.Cmd {
	action := "passage-saved"
	if r == nil {
		action = "passage-cleared"
	}
	a := m.app
	return m.sessionCmd(action, func(ctx context.Context, _ *reader.Session) error {
		return a.SavePassage(ctx, r)
	})
}

func (m *Model) saveDisplay(d types.DisplayConfig) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		return displaySavedMsg{err: a.SaveDisplay(d)}
	}
}

func (m *Model) handleSessionMsg(msg sessionMsg) tea.Cmd {
	m.loading = false

	passageAction := msg.action == "passage-saved" || msg.action == "passage-cleared"
	if passageAction && m.passage != nil {
		var rerr bible.RangeErrors
		if errors.As(msg.err, &rerr) {
			m.passage.SetErrors(rerr)
			return nil
		}
		m.view = ViewReader
		m.passage = nil
	}

	if msg.err != nil {
		m.err = msg.err
		m.app.Logger.Warn("session operation failed", "action", msg.action, "error", msg.err)
		return nil
	}

	m.err = nil
	m.statusText = ""
	m.updateViewport()
	m.viewport.GotoTop()

	switch msg.action {
	case "passage-saved":
		return m.toast.Show("본문 범위를 저장했습니다", ToastSuccess)
	case "passage-cleared":
		return m.toast.Show("본문 범위를 해제했습니다", ToastInfo)
	}
	return nil
}

func (m *Model) handleStepMsg(msg stepMsg) tea.Cmd {
	_, err := m.app.Session.ApplyStep(msg.res)
	switch {
	case err == nil:
		m.err = nil
		m.updateViewport()
		m.viewport.GotoTop()
		return nil

	case errors.Is(err, reader.ErrStaleStep):
		return nil

	case errors.Is(err, navigation.ErrBoundary):
		return m.toast.Show("더 이상 이동할 구절이 없습니다", ToastWarning)
	}

	m.err = err
	m.app.Logger.Warn("step failed", "error", err)
	return nil
}
