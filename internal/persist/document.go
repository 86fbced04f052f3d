package persist

import (
	"encoding/json"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
)

// Status is the save indicator.
type Status string

const (
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// Snapshot is one entry of the push history.
type Snapshot struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Branch    string `json:"branch"`
	Digest    string `json:"digest,omitempty"`
}

// Document is the complete durable workspace state. ActiveID is empty when nothing is
// selected.
type Document struct {
	Files     []graph.Node
	ActiveID  string
	OpenIDs   []string
	Snapshots []Snapshot
}

type documentJSON struct {
	Files     []graph.Node `json:"files"`
	ActiveID  *string      `json:"activeId"`
	OpenIDs   []string     `json:"openIds"`
	Snapshots []Snapshot   `json:"snapshots"`
}

// MarshalJSON implements json.Marshaler. Empty lists are written as [] and an empty
// selection as null.
func (d Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		Files:     d.Files,
		OpenIDs:   d.OpenIDs,
		Snapshots: d.Snapshots,
	}
	if out.Files == nil {
		out.Files = []graph.Node{}
	}
	if out.OpenIDs == nil {
		out.OpenIDs = []string{}
	}
	if out.Snapshots == nil {
		out.Snapshots = []Snapshot{}
	}
	if d.ActiveID != "" {
		active := d.ActiveID
		out.ActiveID = &active
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. Missing keys leave empty values, so
// documents written by older releases load as-is.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Document{
		Files:     in.Files,
		OpenIDs:   in.OpenIDs,
		Snapshots: in.Snapshots,
	}
	if in.ActiveID != nil {
		d.ActiveID = *in.ActiveID
	}
	return nil
}
