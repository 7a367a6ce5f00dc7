package entry

import (
	"errors"
	"fmt"
)

// ErrInvalidNodeID is returned by New when the node ID is empty or not all digits.
var ErrInvalidNodeID = errors.New("invalid node id")

// Entry represents one competition listing
type Entry struct {
	NodeID       string `json:"nodeId"`
	Title        string `json:"title"`
	NodeURL      string `json:"nodeUrl"`
	EntryURL     string `json:"entryUrl"` // click-through target; same as NodeURL
	SourceDomain string `json:"sourceDomain"`
}

// New creates a fully populated Entry. EntryURL is set to nodeURL.
func New(nodeID, title, nodeURL, sourceDomain string) (*Entry, error) {
	if !IsNodeID(nodeID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNodeID, nodeID)
	}

	return &Entry{
		NodeID:       nodeID,
		Title:        title,
		NodeURL:      nodeURL,
		EntryURL:     nodeURL,
		SourceDomain: sourceDomain,
	}, nil
}

// IsNodeID reports whether s is a non-empty string of ASCII digits
func IsNodeID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
