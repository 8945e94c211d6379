package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/semgraph/pkg/ingest"
	"github.com/dd0wney/semgraph/pkg/logging"
	"github.com/dd0wney/semgraph/pkg/session"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	summaryBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginLeft(2).
			MarginTop(1)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)
)

type view int

const (
	nodesView view = iota
	ranksView
	predictionsView
	viewCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Reset    key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.ShiftTab}, {k.Enter, k.Reset, k.Quit}}
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "predict links for node"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset layout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type model struct {
	sess         *session.Session
	tick         time.Duration
	snap         session.Snapshot
	currentView  view
	nodeTable    table.Model
	rankTable    table.Model
	predTable    table.Model
	selectedNode int
	message      string
	help         help.Model
	width        int
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(sess *session.Session, tick time.Duration) model {
	nodeTable := newTable([]table.Column{
		{Title: "#", Width: 4},
		{Title: "Label", Width: 28},
		{Title: "Conn", Width: 6},
		{Title: "X", Width: 8},
		{Title: "Y", Width: 8},
		{Title: "Tier", Width: 8},
	})
	rankTable := newTable([]table.Column{
		{Title: "Node", Width: 28},
		{Title: "Score", Width: 10},
		{Title: "Connectivity", Width: 12},
	})
	predTable := newTable([]table.Column{
		{Title: "Predicted Node", Width: 28},
		{Title: "Score", Width: 10},
		{Title: "Relation", Width: 10},
	})

	m := model{
		sess:         sess,
		tick:         tick,
		currentView:  nodesView,
		nodeTable:    nodeTable,
		rankTable:    rankTable,
		predTable:    predTable,
		selectedNode: -1,
		help:         help.New(),
	}
	m.refresh()
	return m
}

// refresh re-reads the session snapshot into the tables.
func (m *model) refresh() {
	m.snap = m.sess.Snapshot()

	nodeRows := make([]table.Row, 0, len(m.snap.Nodes))
	rankRows := make([]table.Row, 0, len(m.snap.Nodes))
	for _, n := range m.snap.Nodes {
		nodeRows = append(nodeRows, table.Row{
			fmt.Sprintf("%d", n.Index),
			n.Label,
			fmt.Sprintf("%d", n.Connections),
			fmt.Sprintf("%.1f", n.X),
			fmt.Sprintf("%.1f", n.Y),
			n.RankTier,
		})
		rankRows = append(rankRows, table.Row{
			n.Label,
			fmt.Sprintf("%.5f", n.Rank),
			n.RankTier,
		})
	}
	m.nodeTable.SetRows(nodeRows)
	m.rankTable.SetRows(rankRows)
}

func (m *model) predict() {
	cursor := m.nodeTable.Cursor()
	if cursor < 0 || cursor >= len(m.snap.Nodes) {
		return
	}
	m.selectedNode = m.snap.Nodes[cursor].Index

	views := m.sess.PredictViews(m.selectedNode)
	rows := make([]table.Row, 0, len(views))
	for _, v := range views {
		rows = append(rows, table.Row{
			v.Label,
			fmt.Sprintf("%.2f", v.Score),
			v.Tier,
		})
	}
	m.predTable.SetRows(rows)

	label := m.snap.Nodes[m.selectedNode].Label
	direct := len(m.sess.Graph().ConnectedTo(m.selectedNode))
	if len(views) == 0 {
		m.message = fmt.Sprintf("No potential links found for '%s' (%d direct links).", label, direct)
	} else {
		m.message = fmt.Sprintf("Link prediction for '%s': %d candidates, %d direct links", label, len(views), direct)
	}
	m.currentView = predictionsView
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tickMsg:
		m.sess.Tick()
		m.refresh()
		return m, tickCmd(m.tick)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount

		case key.Matches(msg, keys.Enter):
			if m.currentView == nodesView {
				m.predict()
			}

		case key.Matches(msg, keys.Reset):
			m.sess.ResetLayout()
			m.refresh()
			m.message = "Layout reset."
		}
	}

	switch m.currentView {
	case nodesView:
		m.nodeTable, cmd = m.nodeTable.Update(msg)
	case ranksView:
		m.rankTable, cmd = m.rankTable.Update(msg)
	case predictionsView:
		m.predTable, cmd = m.predTable.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var b string

	b += titleStyle.Render("Semantic Graph Explorer") + "\n"

	tabs := []string{"Nodes", "Page Rank", "Predictions"}
	var rendered string
	for i, tab := range tabs {
		if view(i) == m.currentView {
			rendered += activeTabStyle.Render(tab)
		} else {
			rendered += inactiveTabStyle.Render(tab)
		}
	}
	b += contentStyle.Render(rendered) + "\n"

	summary := fmt.Sprintf("Nodes: %d   Edges: %d   Rank mean: %.4f   Rank stddev: %.4f",
		m.snap.Summary.Nodes, m.snap.Summary.Edges,
		m.snap.Summary.RankMean, m.snap.Summary.RankStdDev)
	b += summaryBoxStyle.Render(summary) + "\n"

	switch m.currentView {
	case nodesView:
		b += contentStyle.Render(m.nodeTable.View()) + "\n"
	case ranksView:
		b += contentStyle.Render(m.rankTable.View()) + "\n"
	case predictionsView:
		b += contentStyle.Render(m.predTable.View()) + "\n"
	}

	if m.message != "" {
		b += messageStyle.Render(m.message) + "\n"
	}
	b += helpStyle.Render(m.help.View(keys))
	return b
}

func main() {
	dataPath := flag.String("data", "graph_data.csv", "Path to the triple CSV file")
	configPath := flag.String("config", "", "Path to YAML config (optional)")
	seed := flag.Int64("seed", 0, "Layout RNG seed (0 = time-based)")
	flag.Parse()

	log := logging.NewDefaultLogger()

	cfg, err := session.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}

	sess := session.New(cfg, log, nil, nil, rng)

	ds, err := ingest.LoadFile(*dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		os.Exit(1)
	}
	if len(ds.Triples) == 0 {
		fmt.Fprintf(os.Stderr, "warning: no data to visualize; %s is empty or missing rows\n", *dataPath)
	}
	sess.Load(ds)

	p := tea.NewProgram(initialModel(sess, cfg.TickInterval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
