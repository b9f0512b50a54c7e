package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cmmsuite/internal/report"
	"cmmsuite/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeIRConverter mode = iota
	modeDiscrepancy
)

type state int

const (
	stateMenu state = iota
	statePickCMM
	statePickTemplate
	statePickBatchDir
	stateProcessing
	stateComplete
	stateError
)

// FilledReportName is the workbook the IR converter writes next to the
// template.
const FilledReportName = "Final_Report_Done.xlsx"

var menuEntries = []string{
	"IR Converter — fill an inspection report template from a CMM result",
	"Discrepancy Report — batch out-of-tolerance summary for a folder",
}

type Model struct {
	state        state
	mode         mode
	menuCursor   int
	filepicker   filepicker.Model
	cmmFile      string
	templateFile string
	batchDir     string
	opts         report.Options
	fillResult   *types.FillResult
	discResult   *types.DiscrepancyResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan processResultMsg
}

type processResultMsg struct {
	fill *types.FillResult
	disc *types.DiscrepancyResult
	err  error
}

type processCompleteMsg processResultMsg

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel() Model {
	prog := progress.New(progress.WithGradient("#4FC3F7", "#81D4FA"))

	return Model{
		state:    stateMenu,
		opts:     report.DefaultOptions(),
		progress: prog,
	}
}

// newPicker builds a themed filepicker, selecting either .xlsx files or
// directories.
func newPicker(startDir string, dirMode bool) filepicker.Model {
	fp := filepicker.New()
	if dirMode {
		fp.DirAllowed = true
		fp.FileAllowed = false
	} else {
		fp.AllowedTypes = []string{".xlsx"}
	}
	if startDir != "" {
		fp.CurrentDirectory = startDir
	} else {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC3F7"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#81D4FA"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#81D4FA"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC3F7")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	return fp
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateMenu:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.menuCursor > 0 {
					m.menuCursor--
				}
			case "down", "j":
				if m.menuCursor < len(menuEntries)-1 {
					m.menuCursor++
				}
			case "enter":
				return m.enterMode(mode(m.menuCursor))
			}

		case statePickCMM, statePickTemplate, statePickBatchDir:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc":
				m.state = stateMenu
				m.cmmFile = ""
				m.templateFile = ""
				m.batchDir = ""
				return m, nil
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case processCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fillResult = msg.fill
		m.discResult = msg.disc
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Route everything else to the active filepicker
	switch m.state {
	case statePickCMM:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.cmmFile = path
			m.state = statePickTemplate
			m.filepicker = newPicker(filepath.Dir(path), false)
			m.filepicker.SetHeight(m.pickerHeight())
			return m, m.filepicker.Init()
		}
		return m, cmd

	case statePickTemplate:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.templateFile = path
			return m.startFill()
		}
		return m, cmd

	case statePickBatchDir:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.batchDir = path
			return m.startBatch()
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) pickerHeight() int {
	height := m.height - 14
	if height < 5 {
		height = 5
	}
	return height
}

func (m Model) enterMode(selected mode) (Model, tea.Cmd) {
	m.mode = selected
	switch selected {
	case modeIRConverter:
		m.state = statePickCMM
		m.filepicker = newPicker("", false)
	case modeDiscrepancy:
		m.state = statePickBatchDir
		m.filepicker = newPicker("", true)
	}
	m.filepicker.SetHeight(m.pickerHeight())
	return m, m.filepicker.Init()
}

func (m Model) startFill() (Model, tea.Cmd) {
	m.state = stateProcessing
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan processResultMsg, 1)

	cmd := tea.Batch(
		func() tea.Msg {
			progressChan := m.progressChan
			resultChan := m.resultChan
			cmmFile := m.cmmFile
			templateFile := m.templateFile
			outputFile := filepath.Join(filepath.Dir(templateFile), FilledReportName)
			opts := m.opts

			go func() {
				result, err := report.FillTemplate(cmmFile, templateFile, outputFile, opts, progressChan)
				resultChan <- processResultMsg{fill: result, err: err}
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func (m Model) startBatch() (Model, tea.Cmd) {
	m.state = stateProcessing
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan processResultMsg, 1)

	cmd := tea.Batch(
		func() tea.Msg {
			progressChan := m.progressChan
			resultChan := m.resultChan
			batchDir := m.batchDir
			opts := m.opts

			go func() {
				var result *types.DiscrepancyResult
				files, err := report.FindWorkbooks(batchDir)
				if err == nil && len(files) == 0 {
					err = fmt.Errorf("no .xlsx files in %s", batchDir)
				}
				if err == nil {
					outputFile := filepath.Join(batchDir, report.CombinedReportName)
					result, err = report.BuildDiscrepancyReport(files, outputFile, opts, progressChan)
				}
				resultChan <- processResultMsg{disc: result, err: err}
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan processResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return processCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePickCMM, statePickTemplate, statePickBatchDir:
		return m.viewPicker()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		if m.mode == modeIRConverter {
			return m.viewFillComplete()
		}
		return m.viewBatchComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📐 CMM Quality Suite"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Pick a tool"))
	s.WriteString("\n\n")

	for i, entry := range menuEntries {
		cursor := "  "
		line := entry
		if m.menuCursor == i {
			cursor = "> "
			line = SelectedStyle.Render(entry)
		} else {
			line = UnselectedStyle.Render(entry)
		}
		s.WriteString(cursor + line + "\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewPicker() string {
	var s strings.Builder

	var prompt string
	switch m.state {
	case statePickCMM:
		prompt = "Select the CMM result workbook (.xlsx)"
	case statePickTemplate:
		prompt = "Select the IR template workbook (.xlsx)"
	case statePickBatchDir:
		prompt = "Select the folder holding the CMM result workbooks"
	}

	s.WriteString(TitleStyle.Render("📐 CMM Quality Suite"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(prompt))
	if m.state == statePickTemplate {
		s.WriteString("\n")
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("CMM result: %s", filepath.Base(m.cmmFile))))
	}
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("esc: back • q: quit"))

	return s.String()
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📐 Processing..."))
	s.WriteString("\n\n")
	if m.mode == modeIRConverter {
		s.WriteString("Filling the inspection report template...")
	} else {
		s.WriteString("Evaluating tolerance bands across the batch...")
	}
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

// truncatePath shortens long paths from the left so the tail stays readable.
func (m Model) truncatePath(path string) string {
	maxLen := m.width - 20
	if maxLen < 30 {
		maxLen = 30
	}
	if len(path) > maxLen {
		return "..." + path[len(path)-maxLen+3:]
	}
	return path
}

func (m Model) viewFillComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ IR Report Generated!"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("CMM result: %s\n", m.truncatePath(m.fillResult.CMMFile)))
	s.WriteString(fmt.Sprintf("Template:   %s\n", m.truncatePath(m.fillResult.TemplateFile)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output:     %s\n", m.truncatePath(m.fillResult.OutputFile))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Characteristics aggregated: %d\n", m.fillResult.Groups))
	s.WriteString(fmt.Sprintf("Template rows filled: %d\n", m.fillResult.RowsFilled))
	if m.fillResult.RowsUnmatched > 0 {
		s.WriteString(fmt.Sprintf("Template rows without a measurement: %d\n", m.fillResult.RowsUnmatched))
	}
	if m.fillResult.RowsSkipped > 0 {
		s.WriteString(WarnStyle.Render(fmt.Sprintf("Source rows skipped (unparseable): %d\n", m.fillResult.RowsSkipped)))
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewBatchComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Combined Discrepancy Report"))
	s.WriteString("\n\n")
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", m.truncatePath(m.discResult.OutputFile))))
	s.WriteString("\n")

	totalFailures := 0
	failedFiles := 0
	for _, outcome := range m.discResult.Outcomes {
		name := filepath.Base(outcome.File)
		if outcome.Err != nil {
			failedFiles++
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %s: %v\n", name, outcome.Err)))
			continue
		}
		totalFailures += outcome.Failures
		line := fmt.Sprintf("  %s: SN %s — %d out of tolerance", name, outcome.SerialNumber, outcome.Failures)
		if outcome.RowsSkipped > 0 {
			line += fmt.Sprintf(" (%d rows skipped)", outcome.RowsSkipped)
		}
		s.WriteString(line + "\n")
	}

	s.WriteString("\n")
	if totalFailures == 0 && failedFiles == 0 {
		s.WriteString(SuccessStyle.Render("No discrepancies found!"))
		s.WriteString("\n")
	} else if failedFiles > 0 {
		s.WriteString(WarnStyle.Render(fmt.Sprintf("%d file(s) skipped with errors\n", failedFiles)))
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
