/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()

	blocked := []string{"IDIOTA", "eres tonto", "m i e r d a", "Cabrón", "gilipollas!"}
	for _, text := range blocked {
		if !f.Blocked(text) {
			t.Errorf("Blocked(%q) = false, want true", text)
		}
	}

	allowed := []string{"azul", "hola mundo", "cancion feliz", ""}
	for _, text := range allowed {
		if f.Blocked(text) {
			t.Errorf("Blocked(%q) = true, want false", text)
		}
	}
}

func TestShortWordsMatchWholeTokens(t *testing.T) {
	f := DefaultFilter()

	blocked := []string{"culo", "CULOS", "caca!", "vaya pedo", "c a c a", "memos"}
	for _, text := range blocked {
		if !f.Blocked(text) {
			t.Errorf("Blocked(%q) = false, want true", text)
		}
	}

	allowed := []string{"cálculo", "memoria", "película", "pedometro", "cacao", "gilito"}
	for _, text := range allowed {
		if f.Blocked(text) {
			t.Errorf("Blocked(%q) = true, want false", text)
		}
	}
}

func TestNilFilterAllowsEverything(t *testing.T) {
	var f *Filter

	if f.Blocked("idiota") {
		t.Fatal("nil filter blocked text")
	}
	if f.Len() != 0 {
		t.Fatalf("Len = %d, want 0", f.Len())
	}
}

func TestNewFilterDeduplicates(t *testing.T) {
	f := NewFilter([]string{"Foo", "foo", " FÓO ", "", "bar baz"})

	if f.Len() != 2 {
		t.Fatalf("Len = %d, want 2", f.Len())
	}
	if !f.Blocked("xbarbazx") {
		t.Fatal("expected whitespace-insensitive match")
	}
}

func TestLoadFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocklist.txt")
	data := "# comment\n\nbrocoli\n  Coliflor  \n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFilter(path)
	if err != nil {
		t.Fatalf("LoadFilter: %v", err)
	}

	if f.Len() != 2 {
		t.Fatalf("Len = %d, want 2", f.Len())
	}
	if !f.Blocked("Brócoli") || !f.Blocked("coli flor") {
		t.Fatal("expected loaded words to be blocked")
	}
	if f.Blocked("idiota") {
		t.Fatal("loaded filter should replace the default list")
	}
}

func TestLoadFilterMissingFile(t *testing.T) {
	if _, err := LoadFilter(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
