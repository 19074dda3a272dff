package answer

import (
	"fmt"
	"strings"

	"podium/internal/query"
	"podium/internal/search"
)

// BuildPrompt renders the structured evidence into the prompt the language
// model answers from. The model only ever sees filtered rows, never the full
// dataset.
func BuildPrompt(userQuery string, res search.Result, ents query.Entities, intent query.Intent, maxRows int) string {
	var context []string
	if ents.Country != "" {
		context = append(context, "Country: "+ents.Country)
	}
	if ents.Year != "" {
		context = append(context, "Year: "+ents.Year)
	}
	if ents.MedalType != "" && ents.MedalType != "total" {
		context = append(context, "Medal Type: "+titleCase(ents.MedalType))
	}
	if ents.City != "" {
		context = append(context, "Host City: "+ents.City)
	}
	if ents.Athlete != "" {
		context = append(context, "Athlete: "+ents.Athlete)
	}
	contextLine := "No filters"
	if len(context) > 0 {
		contextLine = strings.Join(context, ", ")
	}

	data := "No results found"
	if len(res.Rows) > 0 {
		data = renderTable(res, maxRows)
	}

	return fmt.Sprintf(`You are an Olympic assistant. Based on the following data, clearly answer the user's question.

User Question: %q
Intent: %s
Context: %s

Filtered Data:
%s

Answer:`, userQuery, intent, contextLine, data)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// renderTable writes rows as aligned columns, capped at maxRows.
func renderTable(res search.Result, maxRows int) string {
	if maxRows <= 0 {
		maxRows = 20
	}
	rows := res.Rows
	truncated := false
	if len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}

	widths := make([]int, len(res.Columns))
	for i, c := range res.Columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i := range res.Columns {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i := range res.Columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteString("\n")
	}
	writeRow(res.Columns)
	for _, row := range rows {
		writeRow(row)
	}
	if truncated {
		fmt.Fprintf(&b, "... and %d more rows\n", len(res.Rows)-maxRows)
	}
	return strings.TrimRight(b.String(), "\n")
}
