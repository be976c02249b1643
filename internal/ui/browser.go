package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Mohsinsiddi/lcurate/internal/ipfs"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	tea "github.com/charmbracelet/bubbletea"
)

// browserModel is the bubbletea model for the interactive item browser.
type browserModel struct {
	title    string
	gateway  string
	all      []subgraph.Item
	visible  []subgraph.Item
	cursor   int
	query    string
	typing   bool
	detail   bool
	flash    string
	selected *subgraph.Item
}

func newBrowser(title, gateway string, items []subgraph.Item) browserModel {
	return browserModel{title: title, gateway: gateway, all: items, visible: items}
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""

	if m.typing {
		switch key.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.typing = false
		case tea.KeyBackspace:
			if r := []rune(m.query); len(r) > 0 {
				m.query = string(r[:len(r)-1])
				m.filter()
			}
		case tea.KeySpace:
			m.query += " "
			m.filter()
		case tea.KeyRunes:
			m.query += string(key.Runes)
			m.filter()
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		if m.detail && key.String() == "esc" {
			m.detail = false
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case "/":
		m.typing = true
		m.detail = false

	case "enter":
		if len(m.visible) > 0 {
			m.detail = !m.detail
		}

	case "o":
		it, ok := m.current()
		if !ok {
			break
		}
		locator := it.Prop(listing.LabelLocator)
		if locator == subgraph.NotAvailable {
			m.flash = "No locator ID available"
			break
		}
		openBrowser(ipfs.GatewayURL(m.gateway, locator))
		m.flash = "Opening in browser…"

	case "r":
		it, ok := m.current()
		if !ok {
			break
		}
		repo := it.Prop(listing.LabelRepository)
		if repo == subgraph.NotAvailable {
			m.flash = "No repository URL available"
			break
		}
		openBrowser(repo)
		m.flash = "Opening repository…"

	case "c":
		it, ok := m.current()
		if !ok {
			break
		}
		if err := copyToClipboard(it.ItemID); err == nil {
			m.flash = "Copied: " + TruncateID(it.ItemID)
		} else {
			m.flash = "Failed to copy"
		}

	case "a":
		it, ok := m.current()
		if !ok {
			break
		}
		if it.Action().Label() == "" {
			m.flash = "No action available for this item"
			break
		}
		m.selected = &it
		return m, tea.Quit
	}
	return m, nil
}

func (m *browserModel) filter() {
	m.visible = subgraph.Search(m.all, m.query)
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m browserModel) current() (subgraph.Item, bool) {
	if m.cursor < len(m.visible) {
		return m.visible[m.cursor], true
	}
	return subgraph.Item{}, false
}

func (m browserModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(m.title))
	sb.WriteString("\n")
	if m.typing || m.query != "" {
		sb.WriteString(StyleMeta.Render("Search: ") + m.query)
		if m.typing {
			sb.WriteString("█")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	switch {
	case len(m.visible) == 0 && m.query != "":
		sb.WriteString(StyleMeta.Render("No frontends match your search") + "\n")
	case len(m.visible) == 0:
		sb.WriteString(StyleMeta.Render("No frontends found") + "\n")
	case m.detail:
		sb.WriteString(ItemCard(m.visible[m.cursor], m.gateway, true) + "\n")
	default:
		sb.WriteString(m.table().Render())
	}

	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(browserControls())
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m browserModel) table() *Table {
	t := NewTable([]Column{
		{Title: "Name", Width: 22},
		{Title: "Status", Width: 22},
		{Title: "Network", Width: 8},
		{Title: "Submitted", Width: 13},
		{Title: "Item", Width: 13},
	})
	for _, it := range m.visible {
		submitted := "Unknown"
		if r := it.Latest(); r != nil {
			submitted = FormatDate(r.SubmittedAt())
		}
		status := it.Status.Label()
		if it.Disputed() {
			status = "Challenged"
		}
		t.AddRow(Row{
			it.Prop(listing.LabelName),
			status,
			it.Prop(listing.LabelNetwork),
			submitted,
			TruncateID(it.ItemID),
		})
	}
	t.SelIdx = m.cursor
	return t
}

func browserControls() string {
	sep := StyleMeta.Render("   ")
	keys := []struct{ key, label string }{
		{"[ ↑↓ ]", " navigate"},
		{"[ enter ]", " details"},
		{"[ / ]", " search"},
		{"[ o ]", " open"},
		{"[ r ]", " repo"},
		{"[ c ]", " copy id"},
		{"[ a ]", " act"},
		{"[ q ]", " quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = StyleInfo.Render(k.key) + StyleMeta.Render(k.label)
	}
	return strings.Join(parts, sep)
}

// RunBrowser starts the interactive item browser and blocks until the user
// quits. When the user picks an item with "a" and that item has an action
// available, the item is returned.
func RunBrowser(title, gateway string, items []subgraph.Item) (*subgraph.Item, error) {
	m := newBrowser(title, gateway, items)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}
	return final.(browserModel).selected, nil
}

// OpenURL opens url in the OS default browser.
func OpenURL(url string) { openBrowser(url) }

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		}
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	_, _ = io.WriteString(stdin, text)
	stdin.Close()
	return cmd.Wait()
}
