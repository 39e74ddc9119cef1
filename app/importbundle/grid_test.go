package importbundle

import "testing"

func textRow(values ...string) Row {
	row := make(Row, 0, len(values))
	for _, value := range values {
		row = append(row, Cell{Text: value})
	}
	return row
}

func TestLocateHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want int
	}{
		{
			"headers on first row",
			Grid{textRow("Nom", "Prénom", "Téléphone")},
			0,
		},
		{
			"title rows above headers",
			Grid{
				textRow("Cabinet Médical"),
				textRow(""),
				textRow("Nom", "Prénom"),
				textRow("ALAMI", "Karim"),
			},
			2,
		},
		{
			"combined name column",
			Grid{
				textRow("Liste 2024"),
				textRow("Nom Complet", "Montant"),
			},
			1,
		},
		{
			"no anchor falls back to first row",
			Grid{
				textRow("Montant", "Date"),
				textRow("100", "2024-01-01"),
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocateHeaderRow(tt.grid); got != tt.want {
				t.Errorf("LocateHeaderRow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewTableDropsEmptyRows(t *testing.T) {
	grid := Grid{
		textRow("Nom", "Prénom"),
		textRow("ALAMI", "Karim"),
		textRow("", ""),
		textRow("BENANI", "Sara"),
	}

	table := NewTable(grid)
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Rows))
	}
	if table.Headers[0] != "nom" || table.Headers[1] != "prenom" {
		t.Errorf("headers not normalized: %v", table.Headers)
	}
}

func TestExtractCellExactBeatsSubstring(t *testing.T) {
	// "Nom du patient" contains "nom" but the exact "nom" column must win.
	headers := []string{"nomdupatient", "nom"}
	row := textRow("Dossier 12", "ALAMI")

	cell, ok := ExtractCell(headers, row, []string{"nom"})
	if !ok {
		t.Fatal("expected a match")
	}
	if cell.Text != "ALAMI" {
		t.Errorf("got %q, want %q", cell.Text, "ALAMI")
	}
}

func TestExtractCellSubstringFallback(t *testing.T) {
	headers := []string{"datedenaissance", "telephoneportable"}
	row := textRow("1990-01-01", "0612345678")

	cell, ok := ExtractCell(headers, row, []string{"naissance"})
	if !ok || cell.Text != "1990-01-01" {
		t.Errorf("got (%q, %v), want (%q, true)", cell.Text, ok, "1990-01-01")
	}

	if _, ok := ExtractCell(headers, row, []string{"email"}); ok {
		t.Error("expected no match for email")
	}
}

func TestExtractCellLeftmostWins(t *testing.T) {
	headers := []string{"telmobile", "telfixe"}
	row := textRow("0600000001", "0500000002")

	cell, ok := ExtractCell(headers, row, []string{"tel"})
	if !ok || cell.Text != "0600000001" {
		t.Errorf("got (%q, %v), want leftmost column", cell.Text, ok)
	}
}

func TestExtractCellShortRow(t *testing.T) {
	headers := []string{"nom", "prenom", "email"}
	row := textRow("ALAMI")

	cell, ok := ExtractCell(headers, row, []string{"email"})
	if !ok {
		t.Fatal("header exists, expected a match")
	}
	if !cell.IsEmpty() {
		t.Errorf("expected empty cell for missing column, got %+v", cell)
	}
}
