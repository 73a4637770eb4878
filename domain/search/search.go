// Package search parses user-facing search input into structured queries.
// It decouples raw chat input from the index engine requirements.
package search

import (
	"strconv"
	"strings"
)

const defaultLimit = 20

// Query holds the structured parameters for a timeline search.
type Query struct {
	RawInput string // original input, kept for logging
	Terms    string // free text matched against message bodies
	RoomID   string // restrict to one room, empty means all
	SenderID string // restrict to one sender, empty means all
	Limit    int
}

// NewQuery parses command-line style arguments out of a raw string.
// Example: /find invoice --room main --limit 5
func NewQuery(input string) Query {
	q := Query{RawInput: input, Limit: defaultLimit}

	parts := strings.Fields(input)
	var terms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			val := parts[i+1]
			switch strings.TrimPrefix(part, "--") {
			case "room":
				q.RoomID = val
			case "sender":
				q.SenderID = val
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					q.Limit = n
				}
			}
			i++ // skip the consumed value
			continue
		}

		// Leading slash commands are not search terms
		if !strings.HasPrefix(part, "/") {
			terms = append(terms, part)
		}
	}

	q.Terms = strings.Join(terms, " ")
	return q
}
