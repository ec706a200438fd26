package model

import (
	"fmt"
	"strings"
)

// QuestionCount is the fixed number of questions on a sheet
const QuestionCount = 20

// Choice is a bubble letter, or empty when no mark was detected
type Choice string

const (
	ChoiceA    Choice = "A"
	ChoiceB    Choice = "B"
	ChoiceC    Choice = "C"
	ChoiceD    Choice = "D"
	ChoiceNone Choice = "" // No mark detected / no selection made
)

// Choices are the selectable letters, in sheet order
var Choices = []Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// Valid reports whether c is one of the four letters or the empty sentinel
func (c Choice) Valid() bool {
	switch c {
	case ChoiceA, ChoiceB, ChoiceC, ChoiceD, ChoiceNone:
		return true
	}
	return false
}

// ParseChoice trims and upper-cases s before validating it
func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return ChoiceNone, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
	return c, nil
}

// ValidQuestion reports whether q is within 1..QuestionCount
func ValidQuestion(q int) bool {
	return q >= 1 && q <= QuestionCount
}

// AnswerKey maps question number to the correct choice.
// Encodes to JSON as {"1":"A","2":"B",...}.
type AnswerKey map[int]Choice

// DefaultAnswerKey returns a key with every question set to the first choice
func DefaultAnswerKey() AnswerKey {
	key := make(AnswerKey, QuestionCount)
	for q := 1; q <= QuestionCount; q++ {
		key[q] = Choices[0]
	}
	return key
}

// Clone returns an independent copy
func (k AnswerKey) Clone() AnswerKey {
	out := make(AnswerKey, len(k))
	for q, c := range k {
		out[q] = c
	}
	return out
}

// Sanitized drops entries outside 1..QuestionCount and invalid choices
func (k AnswerKey) Sanitized() AnswerKey {
	out := make(AnswerKey, len(k))
	for q, c := range k {
		if ValidQuestion(q) && c != ChoiceNone && c.Valid() {
			out[q] = c
		}
	}
	return out
}

// ParseAnswerKeyString reads a compact key such as "ABCDABCDABCDABCDABCD",
// one letter per question in order
func ParseAnswerKeyString(s string) (AnswerKey, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if len(s) != QuestionCount {
		return nil, fmt.Errorf("%w: expected %d letters, got %d", ErrInvalidQuestion, QuestionCount, len(s))
	}
	key := make(AnswerKey, QuestionCount)
	for i, r := range s {
		c := Choice(string(r))
		if c == ChoiceNone || !c.Valid() {
			return nil, fmt.Errorf("%w: %q at question %d", ErrInvalidChoice, string(r), i+1)
		}
		key[i+1] = c
	}
	return key, nil
}
