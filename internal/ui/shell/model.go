// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell hosts the freqdash panels behind a tab bar. It owns the
// shared API client, mirrors its loading and error state into the header
// spinner and the error banner, and applies config file changes live.
package shell

import (
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/freqdash/internal/api"
	"github.com/jeranaias/freqdash/internal/config"
	cache "github.com/jeranaias/freqdash/internal/metrics"
	"github.com/jeranaias/freqdash/internal/ui"
	"github.com/jeranaias/freqdash/internal/ui/chat"
	"github.com/jeranaias/freqdash/internal/ui/components"
	metricsview "github.com/jeranaias/freqdash/internal/ui/metrics"
	"github.com/jeranaias/freqdash/internal/ui/styles"
	"github.com/jeranaias/freqdash/internal/ui/training"
)

// Tab identifies a panel.
type Tab int

const (
	TabChat Tab = iota
	TabTraining
	TabMetrics
	tabCount
)

var tabTitles = [tabCount]string{"Chat", "ML", "Metrics"}

// String returns the tab title.
func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabTitles[t]
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg    *config.Config
	theme  *styles.Theme
	client *api.Client
	cache  *cache.Cache

	chat     chat.Model
	training training.Model
	metrics  metricsview.Model

	active   Tab
	state    api.State
	spinner  components.Spinner
	help     help.Model
	keyMap   KeyMap
	showHelp bool

	wake        chan struct{}
	unsubscribe func()
	reloads     chan configReloadedMsg
	watcher     *config.Watcher

	width  int
	height int
}

// New builds the shell and its panels around a single client. All panels
// share the client, so its loading and error state covers every call.
func New(cfg *config.Config, client *api.Client) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	theme := styles.NewThemeFor(cfg.UI.Theme)
	metricsCache := cache.NewCache(client, cfg.MetricsTTL())

	m := Model{
		cfg:      cfg,
		theme:    theme,
		client:   client,
		cache:    metricsCache,
		chat:     chat.New(theme, client),
		training: training.New(theme, client),
		metrics:  metricsview.New(theme, metricsCache),
		active:   TabChat,
		state:    client.State(),
		spinner:  components.NewSpinner("Loading"),
		help:     help.New(),
		keyMap:   DefaultKeyMap(),
		wake:     make(chan struct{}, 1),
		reloads:  make(chan configReloadedMsg, 1),
		width:    80,
		height:   24,
	}
	m.chat.SetShowTimestamps(cfg.UI.ShowTimestamps)
	m.metrics.SetChartHeight(cfg.UI.ChartHeight)
	m.training.Blur()

	wake := m.wake
	m.unsubscribe = client.Subscribe(func(api.State) { signal(wake) })
	return m
}

// WatchConfig reloads UI settings whenever the file at path changes.
func (m *Model) WatchConfig(path string) error {
	reloads := m.reloads
	w, err := config.Watch(path, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
		deliverLatest(reloads, configReloadedMsg{Config: cfg, Err: err})
	})
	if err != nil {
		return err
	}
	m.watcher = w
	return nil
}

// Close releases the state subscription and the config watcher.
func (m Model) Close() error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.chat.Init(),
		m.training.Init(),
		waitForState(m.wake),
		waitForReload(m.reloads),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.routeActive(msg)

	case stateChangedMsg:
		cmd := m.syncState()
		return m, tea.Batch(cmd, waitForState(m.wake))

	case ui.PanelErrorMsg:
		log.Printf("%s panel: %s", msg.Panel, msg.Error())
		return m, m.syncState()

	case configReloadedMsg:
		m.applyConfig(msg)
		return m, waitForReload(m.reloads)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.NextTab):
		return m, m.setActive((m.active + 1) % tabCount)
	case key.Matches(msg, m.keyMap.PrevTab):
		return m, m.setActive((m.active + tabCount - 1) % tabCount)
	case key.Matches(msg, m.keyMap.GoChat):
		return m, m.setActive(TabChat)
	case key.Matches(msg, m.keyMap.GoTraining):
		return m, m.setActive(TabTraining)
	case key.Matches(msg, m.keyMap.GoMetrics):
		return m, m.setActive(TabMetrics)
	case key.Matches(msg, m.keyMap.Help) && (msg.String() == "f1" || !m.activeHasInput()):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
		return m, nil
	}
	return m.routeActive(msg)
}

// routeActive hands input to the visible panel only.
func (m Model) routeActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case TabChat:
		m.chat, cmd = m.chat.Update(msg)
	case TabTraining:
		m.training, cmd = m.training.Update(msg)
	case TabMetrics:
		m.metrics, cmd = m.metrics.Update(msg)
	}
	return m, cmd
}

// forward hands non-key messages to every panel. Each ignores the result
// types of the others.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [3]tea.Cmd
	m.chat, cmds[0] = m.chat.Update(msg)
	m.training, cmds[1] = m.training.Update(msg)
	m.metrics, cmds[2] = m.metrics.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

// setActive switches tabs. Entering the metrics tab always reads through
// the cache.
func (m *Model) setActive(tab Tab) tea.Cmd {
	m.active = tab
	m.chat.Blur()
	m.training.Blur()

	switch tab {
	case TabChat:
		return m.chat.Focus()
	case TabTraining:
		return m.training.Focus()
	case TabMetrics:
		return m.metrics.Activate()
	}
	return nil
}

func (m Model) activeHasInput() bool {
	switch m.active {
	case TabChat:
		return m.chat.HasInput()
	case TabTraining:
		return m.training.HasInput()
	}
	return false
}

// syncState copies the client's state and starts or stops the spinner.
func (m *Model) syncState() tea.Cmd {
	prev := m.state
	m.state = m.client.State()

	var cmd tea.Cmd
	if m.state.IsLoading {
		cmd = m.spinner.Start()
	} else {
		m.spinner.Stop()
	}
	if prev.Error != m.state.Error {
		m.layout()
	}
	return cmd
}

func (m *Model) applyConfig(msg configReloadedMsg) {
	if msg.Err != nil {
		log.Printf("config reload failed: %v", msg.Err)
		return
	}
	cfg := msg.Config
	if cfg.API.BaseURL != m.cfg.API.BaseURL || cfg.APIEndpoints() != m.cfg.APIEndpoints() {
		log.Printf("config reload: API settings changed; restart to apply")
	}

	theme := styles.NewThemeFor(cfg.UI.Theme)
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.chat.SetTheme(theme)
	m.training.SetTheme(theme)
	m.metrics.SetTheme(theme)
	m.chat.SetShowTimestamps(cfg.UI.ShowTimestamps)
	m.metrics.SetChartHeight(cfg.UI.ChartHeight)

	// API settings stay as started.
	cfg.API = m.cfg.API
	cfg.Endpoints = m.cfg.Endpoints
	m.cfg = cfg
	m.layout()
	log.Printf("config reloaded: theme=%s timestamps=%t chart_height=%d compact=%t",
		cfg.UI.Theme, cfg.UI.ShowTimestamps, cfg.UI.ChartHeight, cfg.UI.CompactMode)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Active returns the active tab.
func (m Model) Active() Tab {
	return m.active
}

// State returns the last state copied from the client.
func (m Model) State() api.State {
	return m.state
}

// ShowingHelp reports whether the full help view is open.
func (m Model) ShowingHelp() bool {
	return m.showHelp
}

// Chat returns the chat panel.
func (m Model) Chat() chat.Model {
	return m.chat
}

// Training returns the training panel.
func (m Model) Training() training.Model {
	return m.training
}

// Metrics returns the metrics panel.
func (m Model) Metrics() metricsview.Model {
	return m.metrics
}

// Config returns the config in effect.
func (m Model) Config() *config.Config {
	return m.cfg
}
