package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"vinfeatures/internal/encoder"
	"vinfeatures/internal/models"
)

// DefaultPrecision is the number of decimals used for feature values.
const DefaultPrecision = 4

// FeatureTable renders the matrix with one row per identifier.
func FeatureTable(m *encoder.FeatureMatrix, precision int) string {
	header := append([]string{"vin"}, m.Columns...)
	rows := make([][]string, len(m.Rows))

	for i, row := range m.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, m.VINs[i])

		for _, v := range row {
			cells = append(cells, strconv.FormatFloat(v, 'f', precision, 64))
		}

		rows[i] = cells
	}

	return Table(header, rows)
}

// ReportMarkdown renders a drop report as a markdown document.
func ReportMarkdown(r *models.DropReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Drop report\n\n")
	fmt.Fprintf(&sb, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&sb, "- Extracted: %d\n", r.Extracted)
	fmt.Fprintf(&sb, "- Kept: %d\n", r.Kept)
	fmt.Fprintf(&sb, "- Dropped: %d\n", len(r.Dropped))

	if len(r.Dropped) == 0 {
		return sb.String()
	}

	sb.WriteString("\n## By reason\n\n| Reason | Count |\n| --- | --- |\n")

	for _, reason := range r.Reasons() {
		fmt.Fprintf(&sb, "| %s | %d |\n", reason, r.Counts[reason])
	}

	sb.WriteString("\n## Records\n\n| Offset | VIN | Price | Reason | Detail |\n| --- | --- | --- | --- | --- |\n")

	for _, d := range r.Dropped {
		fmt.Fprintf(&sb, "| %d | %s | %d | %s | %s |\n", d.Offset, cell(d.VIN), d.Price, d.Reason, cell(d.Detail))
	}

	return FormatMarkdown(sb.String())
}
