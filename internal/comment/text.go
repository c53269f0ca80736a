package comment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTarget is the soft character budget for one report comment.
const DefaultTarget = 499

// Pronouns is the (subject, possessive) pair used when filling fragments.
type Pronouns struct {
	Subject    string `json:"subject"`
	Possessive string `json:"possessive"`
}

// ResolvePronouns maps a gender label to pronouns. Anything that is not
// "male" or "female" gets the neutral pair.
func ResolvePronouns(gender string) Pronouns {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male":
		return Pronouns{Subject: "he", Possessive: "his"}
	case "female":
		return Pronouns{Subject: "she", Possessive: "her"}
	}
	return Pronouns{Subject: "they", Possessive: "their"}
}

// LowercaseFirst lowercases the first rune of s.
func LowercaseFirst(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// Length counts characters the way the budget does.
func Length(s string) int { return utf8.RuneCountInString(s) }

// Truncate cuts s to at most target characters. Trailing spaces, commas,
// semicolons and periods are stripped from the cut, which is then trimmed
// back to just after its last remaining period, dropping any partial
// sentence. Without a period the stripped cut is returned as is.
func Truncate(s string, target int) string {
	if target < 0 {
		target = 0
	}
	if Length(s) <= target {
		return s
	}
	cut := strings.TrimRight(string([]rune(s)[:target]), " ,;.")
	if i := strings.LastIndexByte(cut, '.'); i >= 0 {
		return cut[:i+1]
	}
	return cut
}
