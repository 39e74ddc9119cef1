package importbundle

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpochOffset is the number of days between the Excel serial date epoch
// (1900 system) and the Unix epoch.
const excelEpochOffset = 25569

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	dateSeparators   = regexp.MustCompile(`[/\-.]`)
	listSeparators   = regexp.MustCompile(`[;,/|\n]+`)
	amountLetters    = regexp.MustCompile(`[A-Za-z]`)
	amountWhitespace = regexp.MustCompile(`\s`)
)

// CoerceDate turns a cell into an ISO date string. Numeric cells are Excel
// serial dates. Text is accepted as AAAA-MM-JJ or as a three part date with
// the year position inferred from the four digit part. Anything else falls
// back to defaultDate with detected false.
func CoerceDate(cell Cell, defaultDate string) (string, bool) {
	if cell.IsNumber {
		t := time.Unix(int64((cell.Number-excelEpochOffset)*86400), 0).UTC()
		if t.Year() > 1900 {
			return t.Format("2006-01-02"), true
		}
	}

	s := strings.TrimSpace(cell.Text)
	if s == "" {
		return defaultDate, false
	}

	if isoDatePattern.MatchString(s) {
		return s[:10], true
	}

	parts := dateSeparators.Split(s, -1)
	if len(parts) == 3 {
		var day, month, year string
		if len(parts[0]) == 4 {
			year, month, day = parts[0], parts[1], parts[2]
		} else {
			day, month, year = parts[0], parts[1], parts[2]
		}
		if len(year) == 2 {
			year = "20" + year
		}
		iso := year + "-" + padDatePart(month) + "-" + padDatePart(day)
		if _, err := time.Parse("2006-01-02", iso); err == nil {
			return iso, true
		}
	}

	return defaultDate, false
}

func padDatePart(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// CoerceAmount reads a monetary value. Text amounts survive currency suffixes
// ("1 250,50 MAD"), thousands spaces and the decimal comma. Unreadable cells
// coerce to zero, the row filter drops them later.
func CoerceAmount(cell Cell) float64 {
	if cell.IsNumber {
		return cell.Number
	}

	s := amountWhitespace.ReplaceAllString(cell.Text, "")
	s = amountLetters.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", ".")
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// CoerceList splits a free text enumeration on the usual separators and
// drops empty entries.
func CoerceList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := listSeparators.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
