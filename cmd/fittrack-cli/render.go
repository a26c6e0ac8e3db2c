package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/claude/fittrack/internal/exercise"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var columns = []string{"Name", "Muscle Group", "Sets", "Reps", "Duration", "Difficulty", "Category"}

// renderTable draws records as a bordered table. Numeric columns are right aligned.
func renderTable(w io.Writer, records []exercise.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(no exercises)"))
		return
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Name,
			r.MuscleGroup,
			strconv.Itoa(r.Sets),
			strconv.Itoa(r.Reps),
			formatMinutes(r.Duration),
			strconv.Itoa(r.Difficulty),
			r.Category,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2 && col <= 5:
				return numberStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.Render())
}

// renderDetail prints one record as aligned key/value lines.
func renderDetail(w io.Writer, r exercise.Record) {
	label := lipgloss.NewStyle().Bold(true).Width(14)
	for i, v := range []string{
		r.Name, r.MuscleGroup, strconv.Itoa(r.Sets), strconv.Itoa(r.Reps),
		formatMinutes(r.Duration) + " min", strconv.Itoa(r.Difficulty) + "/10", r.Category,
	} {
		fmt.Fprintln(w, label.Render(columns[i]+":")+v)
	}
}

func formatMinutes(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
