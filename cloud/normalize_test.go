/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Azul":              "azul",
		"  azul  ":          "azul",
		"AZUL\tmarino":      "azul marino",
		"Canción   Feliz":   "cancion feliz",
		"ÁRBOL":             "arbol",
		"pingüino":          "pinguino",
		"Año nuevo":         "ano nuevo",
		"¿Qué?":             "¿que?",
		"\n\t ":             "",
		"Café con LECHE":    "cafe con leche",
	}

	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeDecomposedInput(t *testing.T) {
	// "e" followed by a combining acute accent.
	if got := Normalize("cafe\u0301"); got != "cafe" {
		t.Fatalf("Normalize = %q, want %q", got, "cafe")
	}
}

func TestSquash(t *testing.T) {
	if got := squash(" Hola  Múndo "); got != "holamundo" {
		t.Fatalf("squash = %q, want %q", got, "holamundo")
	}
}
