package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next         key.Binding
	Prev         key.Binding
	FontUp       key.Binding
	FontDown     key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Version      key.Binding
	CompareWith  key.Binding
	Compare      key.Binding
	CloseCompare key.Binding
	Passage      key.Binding
	EditPassage  key.Binding
	Copy         key.Binding
	Search       key.Binding
	Goto         key.Binding
	Recent       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Next:         key.NewBinding(key.WithKeys("right", " "), key.WithHelp("→", "다음 절")),
	Prev:         key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "이전 절")),
	FontUp:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "글자 크게")),
	FontDown:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "글자 작게")),
	ScrollUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "위로")),
	ScrollDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "아래로")),
	Version:      key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+문자", "역본 변경")),
	CompareWith:  key.NewBinding(key.WithKeys("alt+R"), key.WithHelp("alt+shift+문자", "대조 역본")),
	Compare:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "대조 열기/닫기")),
	CloseCompare: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "대조 닫기")),
	Passage:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "본문 범위로")),
	EditPassage:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "본문 범위 설정")),
	Copy:         key.NewBinding(key.WithKeys("ctrl+y", "y"), key.WithHelp("y", "복사")),
	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "검색")),
	Goto:         key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "구절 이동")),
	Recent:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "최근 구절")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "도움말")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "종료")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Search, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.ScrollUp, k.ScrollDown, k.Goto, k.Recent},
		{k.FontUp, k.FontDown, k.Version, k.CompareWith, k.Compare, k.CloseCompare},
		{k.Passage, k.EditPassage, k.Copy, k.Search, k.Help, k.Quit},
	}
}
