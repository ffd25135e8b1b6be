package model

import (
	"strings"
	"unicode"
)

type ContactID string

type Contact struct {
	ID    ContactID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
	Color string    `json:"color"` // avatar color, assigned from the palette at creation
}

// Initials returns up to two uppercase initials for avatar rendering.
func (c Contact) Initials() string {
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return ""
	}
	first := []rune(fields[0])
	out := []rune{unicode.ToUpper(first[0])}
	if len(fields) > 1 {
		last := []rune(fields[len(fields)-1])
		out = append(out, unicode.ToUpper(last[0]))
	}
	return string(out)
}

// GroupLetter is the alphabetic directory bucket for the contact. Names
// that do not start with a letter group under "#".
func (c Contact) GroupLetter() string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return "#"
	}
	r := unicode.ToUpper([]rune(name)[0])
	if r < 'A' || r > 'Z' {
		return "#"
	}
	return string(r)
}
