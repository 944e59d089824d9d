package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/render"
	"github.com/dgallion1/argus/internal/workspace"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Show a live map that redraws when the file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often save by rename, so watch the directory and filter.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	changed := make(chan struct{}, 1)
	settle := workspace.NewDebouncer(settings.GetDuration("debounce"), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer settle.Stop()

	done := make(chan struct{})
	defer close(done)
	go watchLoop(watcher, path, settle, done)

	m := newWatchModel(path, settings.GetInt("width"), changed)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func watchLoop(w *fsnotify.Watcher, path string, settle *workspace.Debouncer, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Name != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				log.Debug("file changed", "path", path, "op", event.Op.String())
				settle.Trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

type fileChangedMsg struct{}

type mapLoadedMsg struct {
	content string
	stats   argument.Stats
	size    int64
	err     error
	at      time.Time
}

type watchModel struct {
	path     string
	width    int
	changed  <-chan struct{}
	viewport viewport.Model
	ready    bool
	last     mapLoadedMsg
}

func newWatchModel(path string, width int, changed <-chan struct{}) watchModel {
	return watchModel{path: path, width: width, changed: changed}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m watchModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.changed; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (m watchModel) load() tea.Cmd {
	path, width := m.path, m.width
	return func() tea.Msg {
		return loadMap(path, width)
	}
}

// loadMap imports the file and draws its terminal map.
func loadMap(path string, width int) mapLoadedMsg {
	msg := mapLoadedMsg{at: time.Now()}
	_, parsed, size, err := loadFile(path)
	if err != nil {
		msg.err = err
		return msg
	}
	msg.content = render.Terminal(render.Build(parsed), width)
	msg.stats = argument.Summarize(parsed)
	msg.size = size
	return msg
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// One row for the status line.
		height := msg.Height - 1
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		if msg.Width != m.width && msg.Width > 0 {
			m.width = msg.Width
			cmds = append(cmds, m.load())
		}
		m.viewport.SetContent(m.last.content)

	case fileChangedMsg:
		cmds = append(cmds, m.load(), m.waitForChange())

	case mapLoadedMsg:
		// A failed reload keeps the last good map on screen.
		if msg.err == nil {
			m.last = msg
		} else {
			m.last.err = msg.err
			m.last.at = msg.at
		}
		if m.ready {
			m.viewport.SetContent(m.last.content)
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m watchModel) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View() + "\n" + m.statusLine()
}

func (m watchModel) statusLine() string {
	if m.last.err != nil {
		return errorStyle.Render(fmt.Sprintf("%s: %v", filepath.Base(m.path), m.last.err))
	}
	if m.last.at.IsZero() {
		return statusStyle.Render(filepath.Base(m.path))
	}
	return statusStyle.Render(fmt.Sprintf("%s  %s  updated %s  q to quit",
		filepath.Base(m.path), summary(m.last.stats, m.last.size), humanize.Time(m.last.at)))
}
