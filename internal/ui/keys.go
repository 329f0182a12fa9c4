package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap 所有按键绑定
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Single    key.Binding
	Multi     key.Binding
	Select    key.Binding
	Raise     key.Binding
	Lower     key.Binding
	Deal      key.Binding
	Hit       key.Binding
	Stand     key.Binding
	Advice    key.Binding
	PlayAgain key.Binding
	Menu      key.Binding
	Rules     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "su")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "giù")),
		Single:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "singolo")),
		Multi:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "multi")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("invio", "scegli")),
		Raise:     key.NewBinding(key.WithKeys("right", "+", "l"), key.WithHelp("→", "alza")),
		Lower:     key.NewBinding(key.WithKeys("left", "-", "h"), key.WithHelp("←", "abbassa")),
		Deal:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("invio", "distribuisci")),
		Hit:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "carta")),
		Stand:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stai")),
		Advice:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "consiglio")),
		PlayAgain: key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("n", "nuova mano")),
		Menu:      key.NewBinding(key.WithKeys("esc", "m"), key.WithHelp("esc", "menu")),
		Rules:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "regole")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "esci")),
	}
}

// contextHelp 当前界面可用的按键，实现 help.KeyMap
type contextHelp []key.Binding

func (c contextHelp) ShortHelp() []key.Binding  { return c }
func (c contextHelp) FullHelp() [][]key.Binding { return [][]key.Binding{c} }

// helpFor 按牌桌状态返回帮助栏内容
func (k keyMap) helpFor(status string) contextHelp {
	switch status {
	case "MODE_SELECTION":
		return contextHelp{k.Up, k.Down, k.Select, k.Rules, k.Quit}
	case "BETTING":
		return contextHelp{k.Lower, k.Raise, k.Deal, k.Menu, k.Rules, k.Quit}
	case "TURN_PLAYER":
		return contextHelp{k.Hit, k.Stand, k.Advice, k.Menu, k.Rules, k.Quit}
	case "RESULT":
		return contextHelp{k.PlayAgain, k.Menu, k.Rules, k.Quit}
	default:
		return contextHelp{k.Menu, k.Rules, k.Quit}
	}
}
