package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/sette-e-mezzo/internal/advice"
	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/convert"
	"github.com/palemoky/sette-e-mezzo/internal/sound"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		return m, m.applyView(msg.view)

	case tableClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case adviceMsg:
		m.applyAdvice(msg)
		return m, nil

	case latencyTickMsg:
		if lr, ok := m.table.(latencyReporter); ok {
			m.latency = lr.Latency()
		}
		return m, tickLatency()

	case spinner.TickMsg:
		if !m.waiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyView(v protocol.TableView) tea.Cmd {
	wasWaiting := m.waiting()
	if m.hasView {
		if cue, ok := sound.CueFor(m.view, v); ok && m.opts.Sound != nil {
			m.opts.Sound.Play(cue)
		}
		if v.Round != m.view.Round || v.Status != string(table.StatusTurnPlayer) {
			m.advice = ""
		}
	}
	m.view = v
	m.hasView = true

	next := waitForView(m.table.Views())
	if !wasWaiting && m.waiting() {
		return tea.Batch(next, m.spinner.Tick)
	}
	return next
}

func (m *Model) applyAdvice(msg adviceMsg) {
	m.adviceLoading = false
	if msg.round != m.view.Round || m.view.Status != string(table.StatusTurnPlayer) {
		return
	}
	if msg.err != nil {
		var gameErr *apperrors.GameError
		if errors.As(msg.err, &gameErr) {
			m.advice = gameErr.Message
			return
		}
		logger.LogError("advice: %v", msg.err)
		m.advice = advice.FallbackFailure
		return
	}
	m.advice = msg.text
}

// handleKey 把按键转换成牌桌操作
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Rules):
		m.showRules = !m.showRules
		return nil
	}

	if m.showRules {
		if msg.Type == tea.KeyEsc {
			m.showRules = false
		}
		return nil
	}
	if !m.hasView {
		return nil
	}

	switch table.Status(m.view.Status) {
	case table.StatusModeSelection:
		return m.handleModeKey(msg)
	case table.StatusBetting:
		return m.handleBettingKey(msg)
	case table.StatusTurnPlayer:
		return m.handleTurnKey(msg)
	case table.StatusResult:
		switch {
		case key.Matches(msg, m.keys.PlayAgain):
			m.table.PlayAgain()
		case key.Matches(msg, m.keys.Menu):
			m.table.Menu()
		}
	default:
		if key.Matches(msg, m.keys.Menu) {
			m.table.Menu()
		}
	}
	return nil
}

func (m *Model) handleModeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor + len(modes) - 1) % len(modes)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(modes)
	case key.Matches(msg, m.keys.Single):
		m.cursor = 0
		m.table.SelectMode(table.ModeSingle)
	case key.Matches(msg, m.keys.Multi):
		m.cursor = 1
		m.table.SelectMode(table.ModeMulti)
	case key.Matches(msg, m.keys.Select):
		m.table.SelectMode(modes[m.cursor])
	}
	return nil
}

func (m *Model) handleBettingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Raise):
		m.table.AdjustBet(m.rules.BetStep)
	case key.Matches(msg, m.keys.Lower):
		m.table.AdjustBet(-m.rules.BetStep)
	case key.Matches(msg, m.keys.Deal):
		m.table.Deal()
	case key.Matches(msg, m.keys.Menu):
		m.table.Menu()
	}
	return nil
}

func (m *Model) handleTurnKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Hit):
		m.table.Hit()
	case key.Matches(msg, m.keys.Stand):
		m.table.Stand()
	case key.Matches(msg, m.keys.Advice):
		if m.adviceLoading {
			return nil
		}
		wasWaiting := m.waiting()
		m.adviceLoading = true
		m.advice = ""
		if wasWaiting {
			return m.fetchAdvice()
		}
		return tea.Batch(m.fetchAdvice(), m.spinner.Tick)
	case key.Matches(msg, m.keys.Menu):
		m.table.Menu()
	}
	return nil
}

func summaryOf(v protocol.TableView) ledger.Summary {
	return ledger.Summarize(convert.EntriesFromView(v))
}
