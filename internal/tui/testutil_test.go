package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/azyu/bibleview/internal/app"
	"github.com/azyu/bibleview/internal/storage/storagetest"
)

func init() {
	// Disable colors for consistent test output across environments
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testConfig holds common test configuration values.
var testConfig = struct {
	Width   int
	Height  int
	Timeout time.Duration
}{
	Width:   80,
	Height:  24,
	Timeout: 5 * time.Second,
}

// fakeClipboard records copied text.
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// newTestApp creates an App reading the test corpus with its own config directory.
func newTestApp(t *testing.T) *app.App {
	t.Helper()

	t.Setenv(app.EnvDataDir, "")
	t.Setenv(app.EnvVersion, "")
	t.Setenv(app.EnvLogLevel, "")

	fixture := storagetest.NewStore(t)
	cm := app.NewConfigManagerAt(t.TempDir())
	config, err := cm.LoadGlobalConfig()
	require.NoError(t, err)
	config.DataDir = fixture.DataDir()
	config.Lookup.Timeout = testConfig.Timeout
	require.NoError(t, cm.SaveGlobalConfig(config))

	a, err := app.NewWithConfig(cm)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

// newTestModel creates a sized reader model with a fake clipboard.
func newTestModel(t *testing.T) *Model {
	t.Helper()

	m := New(newTestApp(t))
	m.clipboard = &fakeClipboard{}
	return sendWindowSize(m, testConfig.Width, testConfig.Height)
}

// sendKeyMsg sends a key message to the model and returns the updated model.
func sendKeyMsg(m *Model, keyType tea.KeyType) (*Model, tea.Cmd) {
	model, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return model.(*Model), cmd
}

// sendRunesMsg sends runes (typed text) to the model and returns the updated model.
func sendRunesMsg(m *Model, s string) *Model {
	for _, r := range s {
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = model.(*Model)
	}
	return m
}

// sendAltRune sends an alt-modified letter.
func sendAltRune(m *Model, r rune) (*Model, tea.Cmd) {
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true})
	return model.(*Model), cmd
}

// sendWindowSize sends a window size message to the model.
func sendWindowSize(m *Model, width, height int) *Model {
	model, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return model.(*Model)
}

// runCmd executes cmd synchronously and feeds its message back into the
// model. It returns the follow-up command.
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) (*Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)

	model, next := m.Update(cmd())
	return model.(*Model), next
}

// assertViewState checks that the model is in the expected view state.
func assertViewState(t *testing.T, m *Model, expected ViewState) {
	t.Helper()
	if m.view != expected {
		t.Errorf("expected view state %v, got %v", expected, m.view)
	}
}

// assertNoError checks that the model has no error.
func assertNoError(t *testing.T, m *Model) {
	t.Helper()
	if m.err != nil {
		t.Errorf("expected no error, got %v", m.err)
	}
}
