// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui implements the interactive candidate picker for the
// search path of the disambiguation flow.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/arxiv-notes/internal/resolve"
	"github.com/pdiddy/arxiv-notes/pkg/types"
)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type searchDoneMsg struct {
	results []types.PaperMeta
	err     error
}

type statusMsg string

// model drives the picker. All session access happens on the Update
// goroutine; the search itself runs as a command and delivers its
// outcome as a message, so a cancelled session simply drops the late
// result when it lands.
type model struct {
	ctx      context.Context
	session  *resolve.Session
	searcher resolve.Searcher
	statusCh chan string

	queryInput  textinput.Model
	filterInput textinput.Model
	spin        spinner.Model

	searching bool
	status    string
	notice    string
	cursor    int
	err       error
}

func newModel(ctx context.Context, session *resolve.Session, searcher resolve.Searcher, statusCh chan string, initialQuery string) *model {
	qi := textinput.New()
	qi.Placeholder = "Paper title…"
	qi.CharLimit = 200
	qi.Width = 60
	qi.SetValue(initialQuery)
	qi.Focus()

	fi := textinput.New()
	fi.Placeholder = "Type to filter…"
	fi.CharLimit = 200
	fi.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		ctx:         ctx,
		session:     session,
		searcher:    searcher,
		statusCh:    statusCh,
		queryInput:  qi,
		filterInput: fi,
		spin:        sp,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenStatus())
}

// listenStatus forwards retry notices from the search client into the
// event loop.
func (m *model) listenStatus() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.statusCh
		if !ok {
			return nil
		}
		return statusMsg(s)
	}
}

func (m *model) startSearch() tea.Cmd {
	m.session.SetQuery(strings.TrimSpace(m.queryInput.Value()))
	query, err := m.session.BeginSearch()
	if err != nil {
		m.err = err
		return tea.Quit
	}
	m.searching = true
	m.status = "Searching arXiv…"
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		results, searchErr := m.searcher.SearchByTitle(m.ctx, query)
		return searchDoneMsg{results: results, err: searchErr}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.searching {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, m.listenStatus()

	case searchDoneMsg:
		m.searching = false
		m.status = ""
		if err := m.session.CompleteSearch(msg.results, msg.err); err != nil {
			if err == resolve.ErrCancelled {
				return m, tea.Quit
			}
			m.notice = fmt.Sprintf("Search failed: %v", err)
			return m, nil
		}
		m.cursor = 0
		m.filterInput.SetValue("")
		m.filterInput.Focus()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.session.Cancel()
		return m, tea.Quit
	}

	// Input stays disabled while a search is in flight: at most one
	// search per interaction.
	if m.searching {
		return m, nil
	}

	switch m.session.State() {
	case resolve.StateAwaitingQuery:
		if msg.Type == tea.KeyEnter {
			if strings.TrimSpace(m.queryInput.Value()) == "" {
				return m, nil
			}
			return m, m.startSearch()
		}
		var cmd tea.Cmd
		m.queryInput, cmd = m.queryInput.Update(msg)
		return m, cmd

	case resolve.StateRanked:
		switch msg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.session.Candidates())-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			if len(m.session.Candidates()) == 0 {
				return m, nil
			}
			if _, err := m.session.Select(m.cursor); err != nil {
				m.err = err
			}
			return m, tea.Quit
		}

		// Every other keystroke refines the displayed subset: a
		// local re-rank over the fetched set, never a new search.
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.session.Refine(m.filterInput.Value())
		if m.cursor >= len(m.session.Candidates()) {
			m.cursor = 0
		}
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	switch {
	case m.searching:
		fmt.Fprintf(&b, "%s %s\n", m.spin.View(), m.status)

	case m.session.State() == resolve.StateAwaitingQuery:
		b.WriteString(promptStyle.Render("Search arXiv by title") + "\n\n")
		b.WriteString(m.queryInput.View() + "\n")
		if m.notice != "" {
			b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
		}
		b.WriteString(dimStyle.Render("\nenter: search    esc: cancel\n"))

	case m.session.State() == resolve.StateRanked:
		b.WriteString(promptStyle.Render(fmt.Sprintf("Results for %q", m.session.Query())) + "\n\n")
		b.WriteString(m.filterInput.View() + "\n\n")

		switch {
		case m.session.NoMatches():
			b.WriteString(noticeStyle.Render("No papers found.") + "\n")
		case m.session.AllFiltered():
			b.WriteString(noticeStyle.Render("Papers were found, but none match the title closely.") + "\n")
		default:
			for i, c := range m.session.Candidates() {
				line := fmt.Sprintf("%s (%s, %d)  %.2f", c.Title, firstAuthor(c), c.Year, c.Score)
				if i == m.cursor {
					b.WriteString(selectedStyle.Render("> "+line) + "\n")
				} else {
					b.WriteString("  " + line + "\n")
				}
			}
		}
		b.WriteString(dimStyle.Render("\n↑/↓: move    enter: select    esc: cancel\n"))
	}

	return b.String()
}

func firstAuthor(c types.PaperMeta) string {
	if len(c.Authors) == 0 {
		return "unknown"
	}
	if len(c.Authors) == 1 {
		return c.Authors[0]
	}
	return c.Authors[0] + " et al."
}

// Run drives the interactive picker for session, which must be in
// AwaitingQuery. It returns the confirmed record, or nil when the
// user cancelled. statusCh carries retry notices from the search
// client into the view.
func Run(ctx context.Context, session *resolve.Session, searcher resolve.Searcher, statusCh chan string, initialQuery string) (*types.PaperMeta, error) {
	m := newModel(ctx, session, searcher, statusCh, initialQuery)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	if m.err != nil {
		return nil, m.err
	}
	return session.Resolved(), nil
}
