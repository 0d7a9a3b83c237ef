/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Aggregator tallies submitted phrases into a session's word map. A zero
// limit disables that check; a nil Filter accepts everything.
type Aggregator struct {
	MaxPhrases int
	MaxWords   int
	MaxLength  int
	Filter     *Filter
}

// Rejection explains why a phrase was not counted.
type Rejection struct {
	Phrase string
	Reason string
}

func (r Rejection) String() string {
	return fmt.Sprintf("%q (%s)", r.Phrase, r.Reason)
}

// Submit normalizes each phrase and increments its count in s.Words. It
// returns how many phrases were counted, and why the rest were not.
func (a Aggregator) Submit(s *Session, phrases []string) (int, []Rejection) {
	if a.MaxPhrases > 0 && len(phrases) > a.MaxPhrases {
		return 0, []Rejection{{
			Phrase: strings.Join(phrases, ", "),
			Reason: fmt.Sprintf("batch of %d exceeds %d phrases", len(phrases), a.MaxPhrases),
		}}
	}

	accepted := 0

	var rejected []Rejection

	for _, raw := range phrases {
		phrase, reason := a.check(raw)
		if reason != "" {
			rejected = append(rejected, Rejection{Phrase: raw, Reason: reason})
			continue
		}

		s.Words[phrase]++
		accepted++
	}

	return accepted, rejected
}

func (a Aggregator) check(raw string) (string, string) {
	phrase := Normalize(raw)

	switch {
	case phrase == "":
		return "", "empty"
	case a.MaxWords > 0 && len(strings.Fields(phrase)) > a.MaxWords:
		return "", fmt.Sprintf("more than %d words", a.MaxWords)
	case a.MaxLength > 0 && utf8.RuneCountInString(phrase) > a.MaxLength:
		return "", fmt.Sprintf("longer than %d characters", a.MaxLength)
	case a.Filter.Blocked(phrase):
		return "", "blocked"
	}

	return phrase, ""
}
