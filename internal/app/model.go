// Package app hosts the terminal UI: the start screen, the canvas map
// screen with its keyboard-driven mode machine, and the settings screen.
// It owns the autosave/backup scheduler and wires the canvas model, the
// editor session, and the store together under a single Bubble Tea model.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notemap/notemap/internal/canvas"
	"github.com/notemap/notemap/internal/config"
	"github.com/notemap/notemap/internal/logging"
	"github.com/notemap/notemap/internal/store"
)

// screen selects which top-level view owns the input.
type screen int

const (
	screenStart screen = iota
	screenMap
	screenSettings
)

// leaveTarget is a pending screen change awaiting discard confirmation.
type leaveTarget int

const (
	leaveNone leaveTarget = iota
	leaveToStart
	leaveToSettings
	leaveToMap
)

// Options configures the application model.
type Options struct {
	// ConfigDir overrides the per-user configuration directory.
	ConfigDir string

	// MapPath, when set, opens (or creates) that map directly instead of
	// showing the start screen.
	MapPath string

	// Clock supplies the current time; tests inject a fake. Defaults to
	// time.Now.
	Clock func() time.Time
}

// Model is the Bubble Tea state for the whole application.
type Model struct {
	cfgDir   string
	settings *config.Settings

	clock func() time.Time
	log   *slog.Logger

	scr    screen
	width  int
	height int

	start startState
	sets  settingsState

	// Open map session. Valid while scr == screenMap; a settings screen
	// opened from a map only keeps the path to come back to.
	mapPath string
	cmap    *canvas.Map
	vp      canvas.Viewport
	mode    mapMode

	pendingLeave leaveTarget
	help         helpState
	status       string

	// Persistence scheduler state. saving guards the single in-flight
	// write to the canonical map file.
	saving            bool
	lastSave          time.Time
	lastSessionBackup time.Time
	spin              spinner.Model
	watcher           *store.Watcher
}

// New builds the application model. Settings problems degrade to defaults
// with a visible warning; only an unresolvable config directory is fatal.
func New(opts Options) (*Model, error) {
	cfgDir := opts.ConfigDir
	if cfgDir == "" {
		var err error
		cfgDir, err = config.DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	log := logging.New("app")

	settings, err := config.Load(cfgDir)
	var warning string
	if err != nil {
		warning = "Settings unusable, using defaults"
		log.Warn("load settings", "dir", cfgDir, "error", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	spin := spinner.New()
	spin.Spinner = spinner.Line

	m := &Model{
		cfgDir:   cfgDir,
		settings: settings,
		clock:    clock,
		log:      log,
		scr:      screenStart,
		start:    newStartState(cfgDir),
		mode:     modeNormal{},
		spin:     spin,
		status:   warning,
	}

	if opts.MapPath != "" {
		path, err := store.ResolveMapPath(opts.MapPath)
		if err == nil {
			_, err = m.openMap(path)
		}
		if err != nil {
			// Never silently replace a map the user asked for: stay on
			// the start screen with the error in view.
			m.start.errMsg = err.Error()
			m.scr = screenStart
			log.Error("open map from argument", "path", opts.MapPath, "error", err)
		}
	}

	return m, nil
}

// Init starts the spinner, the scheduler tick, and, when a map was opened
// from the command line, the change watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.scheduleTick()}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update is the single event loop: one message is handled to completion
// before the next, so the canvas model never sees concurrent mutation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.W = msg.Width
		m.vp.H = max(0, msg.Height-statusBarHeight)
		m.help.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		cmd := m.handleTick()
		return m, tea.Batch(cmd, m.scheduleTick())

	case saveResultMsg:
		m.handleSaveResult(msg)
		return m, nil

	case backupResultMsg:
		m.handleBackupResult(msg)
		return m, nil

	case mapChangedMsg:
		if m.scr == screenMap {
			m.setStatus("Map file changed on disk by another program")
		}
		if m.watcher != nil {
			return m, waitForChange(m.watcher)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.scr {
		case screenStart:
			return m.handleStartKey(msg)
		case screenSettings:
			return m.handleSettingsKey(msg)
		default:
			return m.handleMapKey(msg)
		}
	}

	return m, nil
}

// setStatus replaces the status-bar notification.
func (m *Model) setStatus(s string) {
	m.status = s
}

// setStatusError reports a non-fatal failure in the status bar and the log.
func (m *Model) setStatusError(prefix string, err error) {
	m.status = fmt.Sprintf("%s: %v", prefix, err)
	m.log.Error(prefix, "error", err)
}

// dirty reports whether the open map has unsaved changes.
func (m *Model) dirty() bool {
	return m.cmap != nil && m.cmap.Dirty()
}
