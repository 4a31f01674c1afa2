package session

import "fmt"

// Banner is the single-slot search result shown next to the active tree.
type Banner struct {
	Found        bool
	Value        int64
	TreeModified bool
}

// Text is the message the banner displays.
func (b Banner) Text() string {
	if !b.Found {
		return fmt.Sprintf("Value %d not found in the tree.", b.Value)
	}
	msg := fmt.Sprintf("Found %d in the tree!", b.Value)
	if b.TreeModified {
		msg += " (Tree structure updated)"
	}
	return msg
}
