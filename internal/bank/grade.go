package bank

import (
	"fmt"
	"strings"
)

// GradeLevel selects which sentence bank a comment is built from.
type GradeLevel int

const (
	Year7 GradeLevel = iota + 7
	Year8
)

var gradeNames = map[GradeLevel]string{
	Year7: "Year 7",
	Year8: "Year 8",
}

// Grades returns the supported grade levels in ascending order.
func Grades() []GradeLevel { return []GradeLevel{Year7, Year8} }

func (g GradeLevel) String() string {
	if s, ok := gradeNames[g]; ok {
		return s
	}
	return fmt.Sprintf("GradeLevel(%d)", int(g))
}

// Key is the compact form used in file names and storage rows ("year7").
func (g GradeLevel) Key() string {
	return "year" + fmt.Sprint(int(g))
}

func (g GradeLevel) Valid() bool {
	_, ok := gradeNames[g]
	return ok
}

// ParseGradeLevel accepts "Year 7", "year7", "YEAR_7" or "7".
func ParseGradeLevel(s string) (GradeLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(norm)
	norm = strings.TrimPrefix(norm, "year")
	for _, g := range Grades() {
		if norm == fmt.Sprint(int(g)) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown grade level %q", s)
}

func (g GradeLevel) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("unknown grade level %d", int(g))
	}
	return []byte(g.String()), nil
}

func (g *GradeLevel) UnmarshalText(b []byte) error {
	v, err := ParseGradeLevel(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
