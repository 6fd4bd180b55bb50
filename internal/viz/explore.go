package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"

	"github.com/avasquez/lowrank/internal/shrink"
	"github.com/avasquez/lowrank/internal/svht"
)

const (
	graphWidth  = 60
	graphHeight = 10
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Explorer is an interactive view of a singular value spectrum. The optimal
// cutoff can be scaled up and down to see how the kept rank and the residual
// respond before committing to a denoising run.
type Explorer struct {
	source     string
	rows, cols int
	spectrum   *shrink.Spectrum
	tauKnown   float64

	knownNoise bool
	multiplier float64
}

// NewExplorer analyzes x and prepares the interactive view.
func NewExplorer(source string, x mat.Matrix) (Explorer, error) {
	sp, err := shrink.Analyze(x)
	if err != nil {
		return Explorer{}, err
	}

	rows, cols := x.Dims()
	m, n := rows, cols
	if m > n {
		m, n = n, m
	}
	tauKnown, err := svht.Threshold(m, n, true)
	if err != nil {
		return Explorer{}, err
	}

	return Explorer{
		source:     source,
		rows:       rows,
		cols:       cols,
		spectrum:   sp,
		tauKnown:   tauKnown,
		multiplier: 1.0,
	}, nil
}

// Cutoff is the currently effective cutoff: the selected threshold variant
// times the median singular value, scaled by the manual multiplier.
func (e Explorer) Cutoff() float64 {
	base := e.spectrum.Cutoff
	if e.knownNoise {
		// spectrum.Cutoff is tau_unknown * median; swap the coefficient
		base = e.tauKnown * (e.spectrum.Cutoff / e.spectrum.Threshold)
	}
	return base * e.multiplier
}

// Kept is the rank surviving the current cutoff.
func (e Explorer) Kept() int {
	return e.spectrum.KeptAt(e.Cutoff())
}

// Residual is the relative Frobenius reconstruction error at the current
// cutoff, computed from the spectrum alone.
func (e Explorer) Residual() float64 {
	energy := e.spectrum.EnergyFraction(e.Kept())
	return math.Sqrt(math.Max(0, 1-energy))
}

func (e Explorer) Init() tea.Cmd { return nil }

func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c":
			return e, tea.Quit
		case "up", "k":
			e.multiplier *= 1.05
		case "down", "j":
			e.multiplier *= 0.95
		case "o":
			e.multiplier = 1.0
		case "n":
			e.knownNoise = !e.knownNoise
		}
	}
	return e, nil
}

func (e Explorer) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(e.source)) + "\n")

	if len(e.spectrum.Values) > 1 {
		chart := asciigraph.Plot(e.spectrum.Values,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("singular value spectrum"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	mode := "estimated noise"
	if e.knownNoise {
		mode = "known noise"
	}

	s.WriteString(labelStyle.Render("matrix") + valueStyle.Render(fmt.Sprintf("%dx%d  beta=%.4f", e.rows, e.cols, beta(e.rows, e.cols))) + "\n")
	s.WriteString(labelStyle.Render("mode") + valueStyle.Render(mode) + "\n")
	s.WriteString(labelStyle.Render("threshold") + valueStyle.Render(fmt.Sprintf("%.6f", e.spectrum.Threshold)) + "\n")
	s.WriteString(labelStyle.Render("cutoff") + valueStyle.Render(fmt.Sprintf("%.6f", e.Cutoff())) + "\n")

	scaleLine := fmt.Sprintf("%.2fx", e.multiplier)
	if e.multiplier != 1.0 {
		s.WriteString(labelStyle.Render("scale") + activeStyle.Render(scaleLine+" (manual)") + "\n")
	} else {
		s.WriteString(labelStyle.Render("scale") + valueStyle.Render(scaleLine+" (optimal)") + "\n")
	}

	s.WriteString(labelStyle.Render("kept rank") + valueStyle.Render(fmt.Sprintf("%d of %d", e.Kept(), len(e.spectrum.Values))) + "\n")
	s.WriteString(labelStyle.Render("residual") + valueStyle.Render(fmt.Sprintf("%.4f", e.Residual())) + "\n")

	s.WriteString(helpStyle.Render("↑↓:Scale Cutoff  O:Optimal  N:Noise Mode  Q:Quit"))
	return s.String()
}

func beta(rows, cols int) float64 {
	if rows > cols {
		rows, cols = cols, rows
	}
	return float64(rows) / float64(cols)
}
