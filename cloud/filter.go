/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Words shorter than this only match a whole token (optionally plural),
// so "culo" blocks "culos" but not "calculo".
const minStemLength = 5

// defaultBlocklist is matched as substrings, so plurals and most
// inflections are covered by their stem.
var defaultBlocklist = []string{
	"puta", "puto", "zorra", "zorro", "gilipollas", "idiota", "tonto", "tonta", "cabron",
	"mierda", "caca", "pedo", "pajero", "pajera", "chupapolla", "verga", "polla", "pene",
	"culo", "cagones", "cagona", "tarado", "tarada", "maricones", "maricona", "bastardo",
	"bastarda", "maldito", "maldita", "cerdo", "cerda", "mamones", "mamona", "pajilla",
	"cojones", "cojonazo", "cojonera", "zopenco", "zopenca", "memo", "mema", "trol",
	"mierdoso", "mierdosa", "cagada", "mierdecilla", "gilipollez", "gilipolleces",
	"zafio", "zafia", "bruto", "bruta", "cretino", "cretina", "subnormal", "gili",
	"manco", "manca", "zoquete", "zoqueta", "patanes", "patana", "baboso", "babosa",
	"pedazo",
}

// Filter is an optional, best-effort profanity check. It is not a security
// boundary: it only keeps the obvious cases off a projected screen.
type Filter struct {
	stems  []string
	tokens map[string]bool
}

func NewFilter(words []string) *Filter {
	f := &Filter{tokens: make(map[string]bool)}

	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = squash(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true

		if len([]rune(w)) < minStemLength {
			f.tokens[w] = true
		} else {
			f.stems = append(f.stems, w)
		}
	}

	return f
}

func DefaultFilter() *Filter {
	return NewFilter(defaultBlocklist)
}

// LoadFilter reads one blocked word per line. Blank lines and lines
// starting with '#' are ignored.
func LoadFilter(path string) (*Filter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading blocklist %s: %w", path, err)
	}

	return NewFilter(words), nil
}

// Blocked reports whether text contains a blocked word once accents and
// whitespace are removed. Short words must match a whole token instead.
func (f *Filter) Blocked(text string) bool {
	if f == nil {
		return false
	}

	s := squash(text)
	for _, w := range f.stems {
		if strings.Contains(s, w) {
			return true
		}
	}

	if len(f.tokens) == 0 {
		return false
	}

	if f.blockedToken(s) {
		return true
	}

	for _, tok := range strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if f.blockedToken(tok) {
			return true
		}
	}

	return false
}

func (f *Filter) blockedToken(tok string) bool {
	if f.tokens[tok] {
		return true
	}
	if base, ok := strings.CutSuffix(tok, "es"); ok && f.tokens[base] {
		return true
	}
	if base, ok := strings.CutSuffix(tok, "s"); ok && f.tokens[base] {
		return true
	}
	return false
}

// Len is the number of distinct blocked words.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.stems) + len(f.tokens)
}
