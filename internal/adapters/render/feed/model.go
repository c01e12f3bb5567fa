package feed

import (
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/whisprhq/whispr-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	records []domain.Confession
	opts    RenderOptions
	styles  styles
	output  string
}

func newModel(records []domain.Confession, opts RenderOptions) model {
	return model{
		records: records,
		opts:    opts,
		styles:  newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.records, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render produces the feed as a one-shot string for plain command output.
func Render(records []domain.Confession, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(records, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

type feedUpdatedMsg struct {
	records []domain.Confession
}

type watchTickMsg struct{}

// WatchModel renders the feed continuously, redrawing whenever the mirror
// publishes a new visible list on updates.
type WatchModel struct {
	updates <-chan []domain.Confession
	opts    RenderOptions
	styles  styles
	records []domain.Confession
}

func NewWatchModel(updates <-chan []domain.Confession, opts RenderOptions) WatchModel {
	return WatchModel{
		updates: updates,
		opts:    opts,
		styles:  newStyles(),
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.waitForUpdate(), watchTick())
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedUpdatedMsg:
		m.records = msg.records
		return m, m.waitForUpdate()
	case watchTickMsg:
		// Periodic redraw keeps the relative timestamps moving.
		m.opts.Now = time.Now()
		return m, watchTick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m WatchModel) View() string {
	view := renderView(m.records, m.opts, m.styles)
	footer := m.styles.meta.Render("categories: " + categoryList() + "  -  press q to quit")
	return view + "\n\n" + footer + "\n"
}

func (m WatchModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		records, ok := <-m.updates
		if !ok {
			return tea.Quit()
		}
		return feedUpdatedMsg{records: records}
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}
