package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/twofish/pkg/engine"
	"github.com/matzehuels/twofish/pkg/scene"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent  = lipgloss.Color("36")  // relations, titles, cursor
	colorOK      = lipgloss.Color("35")  // success, picked nodes
	colorWarn    = lipgloss.Color("220") // skipped relations
	colorText    = lipgloss.Color("255") // ids and paths
	colorMuted   = lipgloss.Color("245") // table headers
	colorFaint   = lipgloss.Color("240") // borders, details
	colorCommand = lipgloss.Color("75")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleFaint   = lipgloss.NewStyle().Foreground(colorFaint)
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)
)

// newTable returns a bordered table with the shared header style. style
// colours body rows; row indexes start at 0.
func newTable(style func(row, col int) lipgloss.Style, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleFaint).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return style(row, col)
		})
}

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleWarn.Render("! " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleFaint.Render("›") + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleFaint.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + styleFaint.Render("→") + " " + styleValue.Render(path))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(styleFaint.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Edit and Render Summaries
// =============================================================================

// printWrites prints the position writes of an edit, one node per line,
// followed by the relations the cascade skipped and the nodes it removed.
func printWrites(res engine.Result) {
	if len(res.Positions) == 0 {
		printDetail("no position writes")
	}
	for _, p := range res.Positions {
		var fields []string
		for _, f := range []struct {
			name string
			c    scene.Coord
		}{{"x", p.X}, {"y", p.Y}, {"w", p.Width}, {"h", p.Height}} {
			if f.c.Valid {
				fields = append(fields, f.name+"="+styleNumber.Render(f.c.String()))
			}
		}
		fmt.Println("  " + styleFaint.Render("→") + " " + styleValue.Render(p.ID) + " " + strings.Join(fields, " "))
	}
	for _, d := range res.Diagnostics {
		printWarning("%s", d.String())
	}
	for _, id := range res.Removed {
		printDetail("removed %s", id)
	}
}

// printRenderSummary prints one line describing a finished render: scene
// size, output size, time taken and whether the cache served it.
func printRenderSummary(s *scene.Scene, size int, elapsed time.Duration, cached bool) {
	shapes := 0
	for _, n := range s.Nodes() {
		if !n.IsRelation() {
			shapes++
		}
	}
	origin := styleFaint.Render("drawn")
	if cached {
		origin = styleOK.Render("cached")
	}
	parts := []string{
		fmt.Sprintf("%d shapes", shapes),
		fmt.Sprintf("%d relations", s.Len()-shapes),
		fmt.Sprintf("%.1f KiB", float64(size)/1024),
		elapsed.Round(time.Millisecond).String(),
	}
	fmt.Println("  " + styleFaint.Render(strings.Join(parts, " · ")+" · ") + origin)
}
