package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/insightdelivered/food-ledger/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

// Day renders records as a table followed by a totals line.
func Day(title string, records []models.Record, totals models.Totals) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Date", "Name", "Calories", "Protein", "Carbs", "Fat")

	for _, r := range records {
		t.Row(r.Date, singleLine(r.Name), formatQuantity(r.Calories),
			formatQuantity(r.Protein), formatQuantity(r.Carbs), formatQuantity(r.Fat))
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(totalStyle.Render(Totals(totals)))
	return sb.String()
}

// Totals renders totals on one line.
func Totals(t models.Totals) string {
	return fmt.Sprintf("Total: %s kcal, protein %sg, carbs %sg, fat %sg",
		formatQuantity(t.Calories), formatQuantity(t.Protein),
		formatQuantity(t.Carbs), formatQuantity(t.Fat))
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// singleLine keeps multi-line names from breaking the table layout.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
