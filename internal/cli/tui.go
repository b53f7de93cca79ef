package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/codemeta/pkg/bulk"
	"github.com/matzehuels/codemeta/pkg/observability"
)

// =============================================================================
// ProgressModel - live view of a bulk run
// =============================================================================

// recentResults is how many finished items the view lists.
const recentResults = 8

var (
	barFilled = lipgloss.NewStyle().Foreground(colorCyan)
	barEmpty  = lipgloss.NewStyle().Foreground(colorDim)
)

type (
	runStartMsg  struct{ total int }
	itemStartMsg struct{ id string }
	runDoneMsg   struct{}
	tickMsg      time.Time
)

type itemDoneMsg struct {
	id     string
	status bulk.Status
	err    error
}

// ProgressModel is the bubbletea model for a bulk run.
type ProgressModel struct {
	Title   string
	Total   int
	Summary bulk.Summary
	Active  []string
	Recent  []itemDoneMsg
	Width   int

	frame     int
	done      bool
	cancelled bool
	cancel    context.CancelFunc
}

// NewProgressModel creates a model; cancel is called when the user quits.
func NewProgressModel(title string, total int, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Title: title, Total: total, Width: 40, cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
		}
	case tea.WindowSizeMsg:
		m.Width = min(max(msg.Width-30, 10), 60)
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case runStartMsg:
		m.Total = msg.total
	case itemStartMsg:
		m.Active = append(m.Active, msg.id)
	case itemDoneMsg:
		m.Active = remove(m.Active, msg.id)
		m.Summary.Total++
		switch msg.status {
		case bulk.StatusSucceeded:
			m.Summary.Succeeded++
		case bulk.StatusWarned:
			m.Summary.Warned++
		case bulk.StatusFailed:
			m.Summary.Failed++
		default:
			m.Summary.Skipped++
		}
		m.Recent = append(m.Recent, msg)
		if len(m.Recent) > recentResults {
			m.Recent = m.Recent[len(m.Recent)-recentResults:]
		}
	case runDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	if m.cancelled {
		b.WriteString(StyleWarning.Render("  cancelling…"))
	}
	b.WriteString("\n\n")

	for _, r := range m.Recent {
		line := statusIcon(r.status) + " " + r.id
		if r.err != nil {
			line += "  " + StyleDim.Render(r.err.Error())
		}
		b.WriteString(line + "\n")
	}
	for _, id := range m.Active {
		b.WriteString(styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)]) + " " + StyleDim.Render(id) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.bar())
	b.WriteString(fmt.Sprintf("  %s/%d", StyleNumber.Render(fmt.Sprint(m.Summary.Total)), m.Total))
	if m.Summary.Failed > 0 {
		b.WriteString("  " + StyleError.Render(fmt.Sprintf("%d failed", m.Summary.Failed)))
	}
	if m.Summary.Warned > 0 {
		b.WriteString("  " + StyleWarning.Render(fmt.Sprintf("%d warned", m.Summary.Warned)))
	}
	b.WriteString("\n" + StyleDim.Render("q to cancel") + "\n")
	return b.String()
}

func (m ProgressModel) bar() string {
	filled := 0
	if m.Total > 0 {
		filled = m.Summary.Total * m.Width / m.Total
	}
	return barFilled.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", m.Width-filled))
}

func remove(list []string, id string) []string {
	for i, v := range list {
		if v == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// =============================================================================
// Hooks bridge
// =============================================================================

// programHooks forwards bulk events into a running program.
type programHooks struct {
	send func(tea.Msg)
}

func (h programHooks) OnRunStart(_ context.Context, _ string, total int) {
	h.send(runStartMsg{total: total})
}

func (h programHooks) OnItemStart(_ context.Context, _, itemID string) {
	h.send(itemStartMsg{id: itemID})
}

func (h programHooks) OnItemComplete(_ context.Context, _, itemID, status string, _ time.Duration, err error) {
	h.send(itemDoneMsg{id: itemID, status: bulk.Status(status), err: err})
}

func (h programHooks) OnRunComplete(context.Context, string, time.Duration) {}

// runWithProgress runs fn while showing the progress view on stderr. The
// view's quit key cancels the context passed to fn.
func runWithProgress(ctx context.Context, title string, total int, fn func(ctx context.Context) *bulk.Report) (*bulk.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(title, total, cancel), tea.WithOutput(os.Stderr))
	prev := observability.Bulk()
	observability.SetBulkHooks(programHooks{send: p.Send})
	defer observability.SetBulkHooks(prev)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, runErr = p.Run()
	}()

	report := fn(ctx)
	p.Send(runDoneMsg{})
	wg.Wait()
	return report, runErr
}
