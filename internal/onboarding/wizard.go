package onboarding

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"plancal/internal/config"
	"plancal/internal/llm"
	"plancal/internal/middleware"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultOllamaURL is probed for local models when ollama is picked.
const DefaultOllamaURL = "http://localhost:11434"

// --- Styles ---

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle   = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Padding(0, 1)
)

// --- Types ---

type state int

const (
	stateProvider state = iota
	stateAPIKey
	stateModel
	stateMiddlewares
	stateDone
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type middlewareSetting struct {
	ID      string
	Enabled bool
}

type savedMsg struct{ err error }

// Wizard walks through provider, credential, model and middleware choices
// and writes the result as a plancal config file.
type Wizard struct {
	path      string
	ollamaURL string

	state       state
	provider    string
	apiKey      string
	model       string
	baseURL     string
	middlewares []middlewareSetting

	list     list.Model
	input    textinput.Model
	cursor   int
	err      error
	quitting bool
	width    int
	height   int
}

// --- Ollama Discovery ---

type ollamaModel struct {
	Name string `json:"name"`
}

type ollamaResponse struct {
	Models []ollamaModel `json:"models"`
}

func fetchOllamaModels(baseURL string) []list.Item {
	fallback := []list.Item{item{title: llm.ProviderOllama.DefaultModel(), desc: "Default fallback (Ollama not responding)"}}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/api/tags")
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()

	var data ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || len(data.Models) == 0 {
		return fallback
	}

	items := make([]list.Item, len(data.Models))
	for i, m := range data.Models {
		items[i] = item{title: m.Name, desc: "Local Ollama model"}
	}
	return items
}

func cloudModels(p llm.Provider) []list.Item {
	switch p {
	case llm.ProviderAnthropic:
		return []list.Item{
			item{title: "claude-3-5-sonnet-latest", desc: "Best Anthropic model"},
			item{title: "claude-3-5-haiku-latest", desc: "Fast Anthropic model"},
		}
	case llm.ProviderGemini:
		return []list.Item{
			item{title: "gemini-2.5-flash", desc: "Fast Google model"},
			item{title: "gemini-2.5-pro", desc: "Powerful Google model"},
		}
	default:
		return []list.Item{
			item{title: "gpt-3.5-turbo", desc: "Default OpenAI model"},
			item{title: "gpt-4o-mini", desc: "Fast OpenAI model"},
			item{title: "gpt-4o", desc: "Best OpenAI model"},
		}
	}
}

// --- Initial Model ---

// NewWizard prepares a wizard that saves to path. ollamaURL may be empty.
func NewWizard(path, ollamaURL string) Wizard {
	if ollamaURL == "" {
		ollamaURL = DefaultOllamaURL
	}

	providers := []list.Item{
		item{title: string(llm.ProviderOllama), desc: "Local execution via Ollama"},
		item{title: string(llm.ProviderOpenAI), desc: "OpenAI GPT models (requires API Key)"},
		item{title: string(llm.ProviderAnthropic), desc: "Claude models (requires API Key)"},
		item{title: string(llm.ProviderGemini), desc: "Google Gemini models (requires API Key)"},
	}

	l := list.New(providers, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Provider"
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.Focus()

	registered := middleware.Registered()
	sort.Slice(registered, func(i, j int) bool {
		return registered[i].ID() < registered[j].ID()
	})
	settings := make([]middlewareSetting, len(registered))
	for i, mw := range registered {
		settings[i] = middlewareSetting{ID: mw.ID(), Enabled: true}
	}

	return Wizard{
		path:        path,
		ollamaURL:   ollamaURL,
		state:       stateProvider,
		list:        l,
		input:       ti,
		middlewares: settings,
	}
}

func (m Wizard) Init() tea.Cmd {
	return nil
}

func (m Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "q":
			if m.state != stateAPIKey {
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-10, msg.Height-15)

	case savedMsg:
		m.err = msg.err
		m.state = stateDone
		return m, nil
	}

	var cmd tea.Cmd
	enter := false
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		enter = true
	}

	switch m.state {
	case stateProvider:
		m.list, cmd = m.list.Update(msg)
		if i, ok := m.list.SelectedItem().(item); enter && ok {
			m.provider = i.title
			if llm.Provider(m.provider).NeedsAPIKey() {
				m.state = stateAPIKey
				m.input.Prompt = fmt.Sprintf("%s API Key: ", m.provider)
				m.input.SetValue("")
			} else {
				m.baseURL = m.ollamaURL
				m.showModels(fetchOllamaModels(m.ollamaURL), "Select Local Model")
			}
		}

	case stateAPIKey:
		m.input, cmd = m.input.Update(msg)
		if enter {
			m.apiKey = strings.TrimSpace(m.input.Value())
			m.showModels(cloudModels(llm.Provider(m.provider)), "Select Cloud Model")
		}

	case stateModel:
		m.list, cmd = m.list.Update(msg)
		if i, ok := m.list.SelectedItem().(item); enter && ok {
			m.model = i.title
			m.state = stateMiddlewares
		}

	case stateMiddlewares:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.middlewares)-1 {
					m.cursor++
				}
			case " ":
				if len(m.middlewares) > 0 {
					m.middlewares[m.cursor].Enabled = !m.middlewares[m.cursor].Enabled
				}
			case "enter":
				return m, m.saveConfig()
			}
		}

	case stateDone:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, cmd
}

func (m *Wizard) showModels(items []list.Item, title string) {
	m.state = stateModel
	m.list.SetItems(items)
	m.list.Select(0)
	m.list.Title = title
}

// Config builds the config the wizard would save.
func (m Wizard) Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Provider = m.provider
	cfg.Model = m.model
	cfg.APIKey = m.apiKey
	cfg.BaseURL = m.baseURL
	for _, s := range m.middlewares {
		if !s.Enabled {
			cfg.DisabledMiddlewares = append(cfg.DisabledMiddlewares, s.ID)
		}
	}
	cfg.Normalize()
	return cfg
}

func (m Wizard) saveConfig() tea.Cmd {
	cfg := m.Config()
	path := m.path
	return func() tea.Msg {
		return savedMsg{err: cfg.Save(path)}
	}
}

func (m Wizard) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(" plancal setup "))
	s.WriteString("\n\n")

	// API key is a sub-step of provider.
	tabs := []string{"Provider", "Model", "Middlewares", "Finish"}
	currentTab := int(m.state)
	if m.state >= stateAPIKey {
		currentTab--
	}
	var renderedTabs []string
	for i, t := range tabs {
		if i == currentTab {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(t))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(t))
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...))
	s.WriteString("\n\n")

	switch m.state {
	case stateProvider, stateModel:
		s.WriteString(m.list.View())
	case stateAPIKey:
		s.WriteString("\n" + m.input.View() + "\n\n" + helpStyle.Render("Press enter to continue (leave empty to use the environment)"))
	case stateMiddlewares:
		s.WriteString("Toggle middlewares with [SPACE], press [ENTER] to save.\n\n")
		for i, mw := range m.middlewares {
			cursor := " "
			if m.cursor == i {
				cursor = ">"
			}
			checked := " "
			if mw.Enabled {
				checked = "x"
			}
			line := fmt.Sprintf("%s [%s] %s", cursor, checked, mw.ID)
			if m.cursor == i {
				line = focusedStyle.Render(line)
			}
			s.WriteString(line + "\n")
		}
	case stateDone:
		if m.err != nil {
			s.WriteString(errStyle.Render(fmt.Sprintf("Failed to save %s: %v", m.path, m.err)))
		} else {
			s.WriteString(fmt.Sprintf("Saved configuration to %s.", m.path))
		}
		s.WriteString("\nPress any key to exit.")
	}

	if m.state != stateDone {
		s.WriteString("\n\n" + helpStyle.Render("q/ctrl+c: quit • ↑/↓: navigate • enter: select"))
	}
	return docStyle.Render(s.String())
}

// --- Runner ---

// Run shows the wizard full-screen. saved is false when the user quit early.
func Run(path string) (saved bool, err error) {
	p := tea.NewProgram(NewWizard(path, ""), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	w, ok := final.(Wizard)
	if !ok || w.state != stateDone {
		return false, nil
	}
	return w.err == nil, w.err
}
