// Package ui 终端界面：渲染牌桌视图，把按键转换成牌桌操作
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/sound"
	"github.com/palemoky/sette-e-mezzo/internal/types"
	"github.com/palemoky/sette-e-mezzo/internal/ui/common"
	"github.com/palemoky/sette-e-mezzo/internal/ui/view"
)

const (
	defaultAdviceTimeout = 10 * time.Second

	// 刷新网络延迟显示的间隔
	latencyRefresh = 3 * time.Second
)

// modes 菜单顺序
var modes = []table.Mode{table.ModeSingle, table.ModeMulti}

// SoundPlayer 播放音效，sound.SoundManager 实现它
type SoundPlayer interface {
	Play(cue sound.Cue)
}

// latencyReporter 远端牌桌报告网络延迟，本地牌桌没有
type latencyReporter interface {
	Latency() int64
}

// --- Tea Messages ---

// viewMsg 牌桌推送的新视图
type viewMsg struct {
	view protocol.TableView
}

// tableClosedMsg 视图通道已关闭
type tableClosedMsg struct{}

// latencyTickMsg 定时读取延迟
type latencyTickMsg struct{}

// adviceMsg 建议请求的结果
type adviceMsg struct {
	round int
	text  string
	err   error
}

// Options 界面参数
type Options struct {
	Sound         SoundPlayer
	AdviceTimeout time.Duration
	Subtitle      string // 显示在标题下，如服务器地址
}

// Model 主界面
type Model struct {
	table types.TableClient
	rules protocol.RulesInfo
	opts  Options

	view    protocol.TableView
	hasView bool
	cursor  int

	advice        string
	adviceLoading bool

	showRules bool
	quitting  bool

	latency int64 // 毫秒

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int
}

// New 创建界面
func New(t types.TableClient, opts Options) *Model {
	if opts.AdviceTimeout <= 0 {
		opts.AdviceTimeout = defaultAdviceTimeout
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = common.CursorStyle

	return &Model{
		table:   t,
		rules:   t.Rules(),
		opts:    opts,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForView(m.table.Views()), m.spinner.Tick}
	if _, ok := m.table.(latencyReporter); ok {
		cmds = append(cmds, tickLatency())
	}
	return tea.Batch(cmds...)
}

func tickLatency() tea.Cmd {
	return tea.Tick(latencyRefresh, func(time.Time) tea.Msg { return latencyTickMsg{} })
}

// waitForView 等待下一个视图
func waitForView(ch <-chan protocol.TableView) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return tableClosedMsg{}
		}
		return viewMsg{view: v}
	}
}

// fetchAdvice 在后台请求建议，不阻塞界面
func (m *Model) fetchAdvice() tea.Cmd {
	t := m.table
	timeout := m.opts.AdviceTimeout
	round := m.view.Round
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		text, err := t.Advice(ctx)
		return adviceMsg{round: round, text: text, err: err}
	}
}

// TableView 当前看到的牌桌
func (m *Model) TableView() protocol.TableView { return m.view }

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.hasView {
		return common.DocStyle.Render(m.spinner.View() + " Connessione al tavolo...")
	}
	if m.showRules {
		return view.RulesView(m.width, m.height)
	}

	sections := []string{view.Header(m.view)}
	if sub := m.subtitle(); sub != "" {
		sections = append(sections, common.SubtleStyle.Render(sub))
	}
	sections = append(sections, "", m.body())
	if box := view.AdviceBox(m.advice, m.adviceLoading, m.spinner.View()); box != "" {
		sections = append(sections, box)
	}
	sections = append(sections, common.PromptStyle.Render(m.help.View(m.keys.helpFor(m.view.Status))))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width > 0 {
		content = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, content)
	}
	return common.DocStyle.Render(content)
}

// subtitle 服务器地址和延迟
func (m *Model) subtitle() string {
	if m.latency <= 0 {
		return m.opts.Subtitle
	}
	ping := fmt.Sprintf("Ping: %dms", m.latency)
	if m.opts.Subtitle == "" {
		return ping
	}
	return m.opts.Subtitle + "  " + ping
}

func (m *Model) body() string {
	switch table.Status(m.view.Status) {
	case table.StatusModeSelection:
		return view.ModeMenu(m.view, m.cursor)
	case table.StatusBetting:
		return view.BettingPanel(m.view, m.rules)
	case table.StatusResult:
		return lipgloss.JoinVertical(lipgloss.Center, view.Table(m.view), view.ResultPanel(m.view))
	case table.StatusTurnCPU1, table.StatusTurnCPU2, table.StatusDealerTurn:
		return lipgloss.JoinVertical(lipgloss.Center, view.Table(m.view), m.spinner.View())
	default:
		return view.Table(m.view)
	}
}

// waiting 是否需要转动 spinner
func (m *Model) waiting() bool {
	return !m.hasView || m.adviceLoading || table.Status(m.view.Status).IsAutomated()
}

// Summary 退出时打印的一行统计
func (m *Model) Summary() string {
	if !m.hasView || len(m.view.History) == 0 {
		return ""
	}
	return strings.TrimSpace(view.SummaryLine(summaryOf(m.view)))
}
