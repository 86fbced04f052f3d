package graph

import (
	"encoding/json"
)

// Kind distinguishes files from folders.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Node is one entry of the workspace graph. ParentID is empty for root-level nodes.
type Node struct {
	ID       string
	Name     string
	Kind     Kind
	ParentID string
	Content  string
	Expanded bool
	Language string
}

// IsFolder reports whether n is a folder.
func (n Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// nodeJSON is the durable layout of a node. Files omit isFolder and carry isOpen=true,
// which keeps slots written by earlier releases loadable.
type nodeJSON struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Language string  `json:"language"`
	Content  string  `json:"content"`
	IsFolder bool    `json:"isFolder,omitempty"`
	IsOpen   bool    `json:"isOpen"`
	ParentID *string `json:"parentId"`
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		ID:       n.ID,
		Name:     n.Name,
		Language: n.Language,
		Content:  n.Content,
		IsFolder: n.IsFolder(),
		IsOpen:   n.Expanded || !n.IsFolder(),
	}
	if n.ParentID != "" {
		parent := n.ParentID
		out.ParentID = &parent
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*n = Node{
		ID:       in.ID,
		Name:     in.Name,
		Language: in.Language,
		Content:  in.Content,
	}
	if in.IsFolder {
		n.Kind = KindFolder
		n.Expanded = in.IsOpen
	}
	if in.ParentID != nil {
		n.ParentID = *in.ParentID
	}
	return nil
}
