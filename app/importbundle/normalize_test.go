package importbundle

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and trims", "  Telephone  ", "telephone"},
		{"strips accents", "Prénom", "prenom"},
		{"strips punctuation", "N° Immat.", "nimmat"},
		{"strips tilde", "Ñoël", "noel"},
		{"keeps digits", "Adresse 2", "adresse2"},
		{"empty", "", ""},
		{"only punctuation", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Prénom", "Nom & Prénom", "DATE DE NAISSANCE"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
