// Package tui is the interactive terminal front end: pick the statement
// defaults or enter custom values, then simulate and read the result.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/growth"
	"github.com/san-kum/popsim/internal/viz"
)

const (
	chartWidth  = 60
	chartHeight = 12
)

const (
	fieldPopA = iota
	fieldRateA
	fieldPopB
	fieldRateB
	numFields
)

var paramNames = [numFields]string{"population_a", "rate_a", "population_b", "rate_b"}

var paramLabels = map[string]string{
	"population_a": "initial population of %s",
	"rate_a":       "annual growth rate of %s (%%)",
	"population_b": "initial population of %s",
	"rate_b":       "annual growth rate of %s (%%)",
}

var paramSteps = map[string]float64{
	"population_a": 1000,
	"rate_a":       0.1,
	"population_b": 1000,
	"rate_b":       0.1,
}

type Model struct {
	defaults    *config.Config
	useDefaults bool
	params      [numFields]float64
	// cursor 0 is the defaults toggle, 1..numFields the fields
	cursor   int
	editing  bool
	editBuf  string
	result   *growth.Result
	err      error
	renderer *viz.Renderer
}

func New(cfg *config.Config, theme viz.Theme) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Model{
		defaults:    cfg,
		useDefaults: true,
		params: [numFields]float64{
			fieldPopA:  cfg.PopulationA,
			fieldRateA: cfg.RateA,
			fieldPopB:  cfg.PopulationB,
			fieldRateB: cfg.RateB,
		},
		renderer: viz.NewRenderer(theme, cfg.Labels),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.editing {
			return m.editKey(key), nil
		}
		return m.formKey(key)
	}
	return m, nil
}

func (m Model) formKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if !m.useDefaults && m.cursor < numFields {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor == 0 {
			m.useDefaults = !m.useDefaults
		} else {
			m.editing = true
			m.editBuf = strconv.FormatFloat(m.params[m.cursor-1], 'f', -1, 64)
		}
	case "left", "h":
		if m.cursor == 0 {
			m.useDefaults = !m.useDefaults
		} else {
			m.params[m.cursor-1] -= paramSteps[m.current()]
		}
	case "right", "l":
		if m.cursor == 0 {
			m.useDefaults = !m.useDefaults
		} else {
			m.params[m.cursor-1] += paramSteps[m.current()]
		}
	case "s", "c":
		m.simulate()
	case "r":
		m.result, m.err = nil, nil
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		val, err := strconv.ParseFloat(m.editBuf, 64)
		if err != nil {
			m.err = fmt.Errorf("%s: %q is not a number", m.current(), m.editBuf)
		} else {
			m.params[m.cursor-1] = val
			m.err = nil
		}
		m.editing, m.editBuf = false, ""
	case "esc":
		m.editing, m.editBuf = false, ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 {
			c := s[0]
			if (c >= '0' && c <= '9') || c == '.' {
				m.editBuf += s
			}
		}
	}
	return m
}

func (m Model) current() string {
	if m.cursor == 0 {
		return ""
	}
	return paramNames[m.cursor-1]
}

// Input is what the next simulation will run with.
func (m Model) Input() growth.Input {
	if m.useDefaults {
		return m.defaults.Input()
	}
	return growth.Input{
		PopulationA: m.params[fieldPopA],
		RateA:       m.params[fieldRateA],
		PopulationB: m.params[fieldPopB],
		RateB:       m.params[fieldRateB],
		MaxYears:    m.defaults.MaxYears,
	}
}

func (m *Model) simulate() {
	m.result, m.err = growth.Simulate(m.Input())
}

func (m Model) Result() *growth.Result { return m.result }
func (m Model) Err() error              { return m.err }

func (m Model) View() string {
	st := m.renderer.Styles
	labels := m.renderer.Labels
	var sb strings.Builder

	sb.WriteString(st.Title.Render(fmt.Sprintf("Population growth: %s vs %s", labels.A, labels.B)))
	sb.WriteString("\n\n")

	yes, no := "( )", "(•)"
	if m.useDefaults {
		yes, no = "(•)", "( )"
	}
	toggle := fmt.Sprintf("use statement defaults?  %s yes  %s no", yes, no)
	sb.WriteString(m.line(0, toggle))

	if !m.useDefaults {
		for i, name := range paramNames {
			label := labels.A
			if strings.HasSuffix(name, "_b") {
				label = labels.B
			}
			value := strconv.FormatFloat(m.params[i], 'f', -1, 64)
			if m.editing && m.cursor == i+1 {
				value = m.editBuf + "█"
			}
			sb.WriteString(m.line(i+1, fmt.Sprintf("%-34s %s", fmt.Sprintf(paramLabels[name], label), value)))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(st.KeyHint.Render("↑/↓ move · enter edit/toggle · ←/→ adjust · s simulate · r reset · q quit"))
	sb.WriteString("\n\n")

	switch {
	case m.err != nil:
		sb.WriteString(st.Failure.Render("rejected: " + m.err.Error()))
		sb.WriteString("\n")
	case m.result != nil:
		sb.WriteString(m.renderer.Report(m.result, chartWidth, chartHeight))
		sb.WriteString("\n")
		if m.result.Overtaken() && len(m.result.Records) > 0 {
			gap := make([]float64, len(m.result.Records))
			for i, rec := range m.result.Records {
				gap[i] = float64(rec.Difference)
			}
			sb.WriteString("\n" + st.Subtle.Render("gap B - A  ") + viz.Sparkline(gap, chartWidth) + "\n")
		}
		sb.WriteString(st.Subtle.Render("growth is compounded yearly on the exact totals; whole inhabitants are shown."))
		sb.WriteString("\n")
	default:
		sb.WriteString(st.Subtle.Render("press s to run the simulation"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m Model) line(idx int, text string) string {
	if idx == m.cursor {
		return m.renderer.Styles.Selected.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

// Run starts the interactive program and blocks until the user quits.
func Run(cfg *config.Config, theme viz.Theme) error {
	p := tea.NewProgram(New(cfg, theme))
	_, err := p.Run()
	return err
}
