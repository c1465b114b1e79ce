package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/genrel/internal/storage"
)

// Document is the JSON form of a saved run.
type Document struct {
	Run        storage.RunMetadata            `json:"run"`
	Components map[string][]ComponentDocument `json:"components"`
}

type ComponentDocument struct {
	Index string `json:"index"`
	Expr  string `json:"expr"`
	LaTeX string `json:"latex"`
}

func NewDocument(meta storage.RunMetadata, comps []storage.Component) Document {
	doc := Document{Run: meta, Components: make(map[string][]ComponentDocument)}
	for _, c := range comps {
		doc.Components[c.Stage] = append(doc.Components[c.Stage], ComponentDocument{Index: c.Index, Expr: c.Expr, LaTeX: c.LaTeX})
	}
	return doc
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
