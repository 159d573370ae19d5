package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 40
)

// ResultView renders the outcome of the last statement: a grid of rows for
// reads, the success message for writes.
type ResultView struct {
	Result      *models.QueryResult
	SelectedRow int

	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// FormatCell renders a value on a single line
func FormatCell(v any) string {
	s := models.FormatValue(v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

// ColumnWidths returns the display width of every header, bounded to
// [minColumnWidth, maxColumnWidth].
func ColumnWidths(headers []string, rows []models.Row) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
		for _, row := range rows {
			if w := runewidth.StringWidth(FormatCell(row[h])); w > widths[i] {
				widths[i] = w
			}
		}
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}
	return widths
}

// View renders the result
func (v *ResultView) View() string {
	muted := lipgloss.NewStyle().Foreground(v.Theme.Muted).Italic(true)

	if v.Result == nil {
		return muted.Render("No query executed yet")
	}
	if v.Result.Message != "" {
		msg := lipgloss.NewStyle().Foreground(v.Theme.Success).Render(v.Result.Message)
		if v.Result.RowsAffected > 0 {
			msg += "\n" + muted.Render(fmt.Sprintf("%d row(s) affected", v.Result.RowsAffected))
		}
		return msg
	}

	headers := v.Result.Headers()
	if len(headers) == 0 {
		return muted.Render("(0 rows)")
	}
	widths := ColumnWidths(headers, v.Result.Rows)

	var b strings.Builder
	b.WriteString(v.renderHeader(headers, widths))
	b.WriteString("\n")
	b.WriteString(v.renderSeparator(widths))

	// header, separator and footer
	visible := len(v.Result.Rows)
	if v.Height > 0 {
		visible = v.Height - 3
	}
	top, end := window(v.SelectedRow, len(v.Result.Rows), visible)
	for i := top; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(v.renderRow(v.Result.Rows[i], headers, widths, i == v.SelectedRow))
	}

	b.WriteString("\n")
	b.WriteString(muted.Render(v.footer()))

	if v.Width > 0 {
		return lipgloss.NewStyle().MaxWidth(v.Width).Render(b.String())
	}
	return b.String()
}

func (v *ResultView) footer() string {
	n := len(v.Result.Rows)
	if n == 0 {
		return "(0 rows)"
	}
	return fmt.Sprintf("row %d of %d · %s", v.SelectedRow+1, n, v.Result.Duration.Round(time.Microsecond))
}

func (v *ResultView) renderHeader(headers []string, widths []int) string {
	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = fit(h, widths[i])
	}
	return lipgloss.NewStyle().Bold(true).Foreground(v.Theme.TableHeader).
		Render(" " + strings.Join(parts, " │ ") + " ")
}

func (v *ResultView) renderSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return lipgloss.NewStyle().Foreground(v.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (v *ResultView) renderRow(row models.Row, headers []string, widths []int, selected bool) string {
	nullStyle := lipgloss.NewStyle().Foreground(v.Theme.Null).Italic(true)
	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = fit(FormatCell(row[h]), widths[i])
		if row[h] == nil {
			parts[i] = nullStyle.Render(parts[i])
		}
	}
	line := " " + strings.Join(parts, " │ ") + " "

	if selected && v.Focused {
		return lipgloss.NewStyle().
			Background(v.Theme.TableRowSelected).
			Bold(true).
			Render(line)
	}
	return line
}

// fit truncates or pads s to exactly width cells
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
