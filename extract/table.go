package extract

import (
	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// Tables scans table_open/close tokens and builds headers/rows/align,
// flagging raggedness against the separator-declared column count
// (spec §4.7).
func Tables(tokens []*mdtoken.Token) []snapshot.Table {
	var out []snapshot.Table
	for i := 0; i < len(tokens); i++ {
		if tokens[i].Type != "table_open" {
			continue
		}
		tbl, next := parseTable(tokens, i)
		out = append(out, tbl)
		i = next
	}
	return out
}

func parseTable(tokens []*mdtoken.Token, openAt int) (snapshot.Table, int) {
	open := tokens[openAt]
	var headers []string
	var align []string
	var rows [][]string

	i := openAt + 1
	inHeader := false
	var curRow []string
	var curAlign []string
	declaredCols := -1

	for i < len(tokens) {
		t := tokens[i]
		switch t.Type {
		case "table_close":
			if len(curRow) > 0 {
				rows = append(rows, curRow)
			}
			goto done
		case "thead_open":
			inHeader = true
		case "thead_close":
			inHeader = false
			headers = curRow
			align = curAlign
			declaredCols = len(headers)
			curRow = nil
			curAlign = nil
		case "tr_open":
			curRow = nil
		case "tr_close":
			if inHeader {
				// handled on thead_close
			} else {
				rows = append(rows, curRow)
				curRow = nil
			}
		case "td":
			curRow = append(curRow, t.Content)
			if inHeader {
				curAlign = append(curAlign, t.Attrs["align"])
			}
		}
		i++
	}
done:

	columnCount := declaredCols
	if columnCount < 0 {
		columnCount = len(headers)
	}

	isRagged := false
	for _, r := range rows {
		if len(r) != columnCount {
			isRagged = true
		}
	}
	if len(headers) != columnCount {
		isRagged = true
	}

	var alignMeta *snapshot.HeuristicFlag
	var raggedMeta *snapshot.HeuristicFlag
	if align == nil {
		align = inferAlignFromContent(headers, rows, columnCount)
		alignMeta = &snapshot.HeuristicFlag{Heuristic: true}
	}
	for i := len(align); i < columnCount; i++ {
		align = append(align, "none")
	}

	// normalize ragged rows to empty-string padding for downstream
	// consumers, without losing the raggedness signal itself
	normRows := make([][]string, len(rows))
	for ri, r := range rows {
		normRows[ri] = padRow(r, columnCount)
	}

	return snapshot.Table{
		Headers:      padStrings(headers, columnCount),
		Rows:         normRows,
		Align:        align,
		AlignMeta:    alignMeta,
		IsRagged:     isRagged,
		IsRaggedMeta: raggedMeta,
		RowCount:     len(rows),
		ColumnCount:  columnCount,
		StartLine:    open.Map[0],
		EndLine:      open.Map[1],
	}, i
}

func padRow(row []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(row) {
			out[i] = row[i]
		} else {
			out[i] = ""
		}
	}
	return out
}

func padStrings(s []string, n int) []string { return padRow(s, n) }

// inferAlignFromContent is the fallback heuristic when no separator
// alignment was observed: numeric-looking columns are right-aligned,
// everything else is left, matching the original's documented heuristic
// and tagged with {heuristic: true} per spec.
func inferAlignFromContent(headers []string, rows [][]string, columnCount int) []string {
	align := make([]string, columnCount)
	for c := 0; c < columnCount; c++ {
		numeric := true
		any := false
		for _, r := range rows {
			if c >= len(r) || r[c] == "" {
				continue
			}
			any = true
			if !looksNumeric(r[c]) {
				numeric = false
			}
		}
		if any && numeric {
			align[c] = "right"
		} else {
			align[c] = "left"
		}
	}
	return align
}

func looksNumeric(s string) bool {
	sawDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sawDigit = true
		case r == '.' || r == '-' || r == '+' || r == ',' || r == '%':
			// punctuation commonly found in numeric cells
		default:
			return false
		}
	}
	return sawDigit
}
