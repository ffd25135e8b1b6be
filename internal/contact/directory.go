package contact

import (
	"github.com/BastianThoma/join/internal/model"
)

// Group is one alphabetic bucket of the contact directory.
type Group struct {
	Letter   string  `json:"letter"`
	Contacts []Entry `json:"contacts"`
}

// Entry is a contact decorated with its rendered initials.
type Entry struct {
	model.Contact
	Initials string `json:"initials"`
}

// GroupByLetter buckets contacts (already sorted by name) into alphabetic
// groups in directory order. Non-letter names land in a trailing "#"
// bucket.
func GroupByLetter(contacts []model.Contact) []Group {
	var groups []Group
	var hash *Group
	for _, c := range contacts {
		letter := c.GroupLetter()
		entry := Entry{Contact: c, Initials: c.Initials()}
		if letter == "#" {
			if hash == nil {
				hash = &Group{Letter: "#"}
			}
			hash.Contacts = append(hash.Contacts, entry)
			continue
		}
		if len(groups) == 0 || groups[len(groups)-1].Letter != letter {
			groups = append(groups, Group{Letter: letter})
		}
		groups[len(groups)-1].Contacts = append(groups[len(groups)-1].Contacts, entry)
	}
	if hash != nil {
		groups = append(groups, *hash)
	}
	return groups
}
