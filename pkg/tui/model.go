// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bascanada/fhirquery/pkg/fhir/search"
)

// Model is the scratchpad: a query line validated on every keystroke,
// with the report rendered below it.
type Model struct {
	validator *search.Validator

	input  textinput.Model
	report viewport.Model

	Keys   KeyMap
	Styles Styles

	Result   search.Result
	showJSON bool
	status   string

	width  int
	height int
	ready  bool
}

// New builds a scratchpad model around the given validator. A nil
// validator falls back to the package default.
func New(validator *search.Validator) *Model {
	if validator == nil {
		validator = search.Default()
	}

	input := textinput.New()
	input.Placeholder = "/Patient?name=Jan&_count=10"
	input.Prompt = "query> "
	input.Focus()

	m := &Model{
		validator: validator,
		input:     input,
		Keys:      DefaultKeyMap(),
		Styles:    DefaultStyles(),
	}
	m.revalidate()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		reportHeight := msg.Height - 7
		if reportHeight < 3 {
			reportHeight = 3
		}
		if !m.ready {
			m.report = viewport.New(msg.Width, reportHeight)
			m.ready = true
		} else {
			m.report.Width = msg.Width
			m.report.Height = reportHeight
		}
		m.report.SetContent(m.renderReport())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.Keys.Clear):
			m.input.SetValue("")
			m.status = ""
			m.revalidate()

		case key.Matches(msg, m.Keys.Copy):
			m.copyResult()

		case key.Matches(msg, m.Keys.ToggleJSON):
			m.showJSON = !m.showJSON
			m.report.SetContent(m.renderReport())

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
			m.status = ""
			m.revalidate()
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// revalidate reruns validation against the current input.
func (m *Model) revalidate() {
	m.Result = m.validator.Validate(m.input.Value())
	if m.ready {
		m.report.SetContent(m.renderReport())
	}
}

func (m *Model) copyResult() {
	data, err := json.MarshalIndent(m.Result, "", "  ")
	if err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = "result copied to clipboard"
}

// renderReport builds the body shown under the query line.
func (m *Model) renderReport() string {
	if m.showJSON {
		data, err := json.MarshalIndent(m.Result, "", "  ")
		if err != nil {
			return m.Styles.IssueError.Render(fmt.Sprintf("marshal error: %v", err))
		}
		return string(data)
	}

	var b strings.Builder

	if strings.TrimSpace(m.input.Value()) == "" {
		b.WriteString(m.Styles.ParsedKey.Render("Type a query to validate it."))
		return b.String()
	}

	if m.Result.Valid {
		b.WriteString(m.Styles.VerdictValid.Render("VALID"))
	} else {
		b.WriteString(m.Styles.VerdictInvalid.Render("INVALID"))
	}
	b.WriteString("\n\n")

	for _, issue := range m.Result.Errors {
		b.WriteString(m.Styles.IssueError.Render("error   "))
		b.WriteString(m.issueLine(issue))
		b.WriteString("\n")
	}
	for _, issue := range m.Result.Warnings {
		b.WriteString(m.Styles.IssueWarning.Render("warning "))
		b.WriteString(m.issueLine(issue))
		b.WriteString("\n")
	}
	if len(m.Result.Errors)+len(m.Result.Warnings) > 0 {
		b.WriteString("\n")
	}

	if parsed := m.Result.Parsed; parsed != nil {
		if parsed.ResourceType != "" {
			b.WriteString(m.kv("resource type", parsed.ResourceType))
		}
		if parsed.ResourceID != "" {
			b.WriteString(m.kv("resource id", parsed.ResourceID))
		}
		if parsed.VersionID != "" {
			b.WriteString(m.kv("version id", parsed.VersionID))
		}
		for _, p := range parsed.Parameters {
			desc := p.Value
			if p.Prefix != "" {
				desc = p.Prefix + " " + desc
			}
			name := p.Name
			if len(p.ChainedPath) > 0 {
				name += "." + strings.Join(p.ChainedPath, ".")
			}
			if p.Modifier != "" {
				name += ":" + p.Modifier
			}
			b.WriteString(m.kv(name, desc))
		}
	}

	return b.String()
}

func (m *Model) issueLine(issue search.Issue) string {
	if issue.Parameter != "" {
		return m.Styles.IssueParam.Render(issue.Parameter) + " " + issue.Message
	}
	return issue.Message
}

func (m *Model) kv(k, v string) string {
	return m.Styles.ParsedKey.Render(k+": ") + m.Styles.ParsedValue.Render(v) + "\n"
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	b.WriteString(m.Styles.Header.Render("fhirquery scratchpad"))
	b.WriteString("\n")
	b.WriteString(m.Styles.QueryInput.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.report.View())
	b.WriteString("\n")

	status := m.status
	if status == "" {
		errs := len(m.Result.Errors)
		warns := len(m.Result.Warnings)
		status = fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	}
	b.WriteString(m.Styles.StatusBar.Render(status))
	b.WriteString("\n")

	var helps []string
	for _, binding := range m.Keys.ShortHelp() {
		helps = append(helps, binding.Help().Key+" "+binding.Help().Desc)
	}
	b.WriteString(m.Styles.HelpBar.Render(strings.Join(helps, "  ")))

	return m.Styles.App.Render(b.String())
}
