package bank

import (
	"fmt"
	"strconv"
	"strings"
)

// ScoreBand is a banded performance level. It is only ever used as a lookup key.
type ScoreBand int

// Bands lists every enumerated band, highest first.
var Bands = []ScoreBand{90, 85, 80, 75, 70, 65, 60, 55, 40, 0}

func (b ScoreBand) Valid() bool {
	for _, v := range Bands {
		if v == b {
			return true
		}
	}
	return false
}

func ParseScoreBand(s string) (ScoreBand, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("score band %q: %w", s, err)
	}
	b := ScoreBand(n)
	if !b.Valid() {
		return 0, fmt.Errorf("score band %d is not one of %v", n, Bands)
	}
	return b, nil
}

// Category names one fragment table inside a bank.
type Category string

const (
	Attitude      Category = "attitude"
	Reading       Category = "reading"
	Writing       Category = "writing"
	ReadingTarget Category = "reading_target"
	WritingTarget Category = "writing_target"
)

// Categories lists the fragment tables in the order they appear in a comment.
func Categories() []Category {
	return []Category{Attitude, Reading, Writing, ReadingTarget, WritingTarget}
}

func (c Category) Valid() bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}
