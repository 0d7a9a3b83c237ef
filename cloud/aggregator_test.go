/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"reflect"
	"testing"
	"time"
)

func TestSubmitTalliesNormalizedPhrases(t *testing.T) {
	s := newSession("S", "", time.Now())
	agg := Aggregator{}

	batches := [][]string{
		{"Azul"},
		{"azul", "ROJO"},
		{"  Azúl "},
		{"rojo  oscuro"},
	}
	for _, b := range batches {
		agg.Submit(s, b)
	}

	want := map[string]int{"azul": 3, "rojo": 1, "rojo oscuro": 1}
	if !reflect.DeepEqual(s.Words, want) {
		t.Fatalf("Words = %v, want %v", s.Words, want)
	}
}

func TestSubmitLimits(t *testing.T) {
	agg := Aggregator{
		MaxPhrases: 2,
		MaxWords:   2,
		MaxLength:  10,
		Filter:     NewFilter([]string{"feo"}),
	}

	tests := []struct {
		name     string
		phrases  []string
		accepted int
		rejected int
	}{
		{"single", []string{"verde"}, 1, 0},
		{"two words", []string{"verde claro"}, 1, 0},
		{"three words", []string{"verde muy claro"}, 0, 1},
		{"too long", []string{"supercalifragilistico"}, 0, 1},
		{"blank", []string{"   "}, 0, 1},
		{"blocked", []string{"muy FEO"}, 0, 1},
		{"mixed", []string{"sol", "muy muy feo"}, 1, 1},
		{"batch too big", []string{"a", "b", "c"}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession("S", "", time.Now())

			accepted, rejected := agg.Submit(s, tt.phrases)
			if accepted != tt.accepted || len(rejected) != tt.rejected {
				t.Fatalf("Submit(%q) = %d accepted, %v rejected; want %d, %d",
					tt.phrases, accepted, rejected, tt.accepted, tt.rejected)
			}

			total := 0
			for _, n := range s.Words {
				total += n
			}
			if total != tt.accepted {
				t.Fatalf("word map holds %d submissions, want %d", total, tt.accepted)
			}
		})
	}
}
