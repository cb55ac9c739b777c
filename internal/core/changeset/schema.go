package changeset

import (
	"fmt"
	"sort"
)

// Relation declares one child relationship of a kind
// Children returns the related records in a stable order
type Relation struct {
	Child    Kind
	Children func(Record) []Record
}

// Node declares a kind, the fields it carries and its child relationships in traversal order
type Node struct {
	Kind      Kind
	Fields    []string
	Relations []Relation
}

// Schema is the static relationship table walked by Propagate
type Schema struct {
	nodes   map[Kind]Node
	exposes map[Kind]Fields
	reaches map[Kind]Fields // fields carried anywhere in the subtree rooted at kind
}

// NewSchema validates the declarations and precomputes which fields every subtree forwards
// it rejects duplicate kinds, relations to undeclared kinds, missing accessors and cycles
func NewSchema(nodes ...Node) (*Schema, error) {
	s := &Schema{
		nodes:   make(map[Kind]Node, len(nodes)),
		exposes: make(map[Kind]Fields, len(nodes)),
		reaches: make(map[Kind]Fields, len(nodes)),
	}
	for _, n := range nodes {
		if n.Kind == "" {
			return nil, fmt.Errorf("schema: empty kind")
		}
		if _, dup := s.nodes[n.Kind]; dup {
			return nil, fmt.Errorf("schema: kind %q declared twice", n.Kind)
		}
		s.nodes[n.Kind] = n
		s.exposes[n.Kind] = NewFields(n.Fields...)
	}
	for _, n := range nodes {
		for _, rel := range n.Relations {
			if _, ok := s.nodes[rel.Child]; !ok {
				return nil, fmt.Errorf("schema: %q relates to undeclared kind %q", n.Kind, rel.Child)
			}
			if rel.Children == nil {
				return nil, fmt.Errorf("schema: %q -> %q has no accessor", n.Kind, rel.Child)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[Kind]int, len(nodes))
	var walk func(k Kind) error
	walk = func(k Kind) error {
		switch state[k] {
		case visiting:
			return fmt.Errorf("schema: cycle through %q", k)
		case done:
			return nil
		}
		state[k] = visiting
		acc := s.exposes[k].clone()
		for _, rel := range s.nodes[k].Relations {
			if err := walk(rel.Child); err != nil {
				return err
			}
			for f := range s.reaches[rel.Child] {
				acc[f] = struct{}{}
			}
		}
		s.reaches[k] = acc
		state[k] = done
		return nil
	}
	for _, n := range nodes {
		if err := walk(n.Kind); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustSchema is NewSchema for package-level tables; it panics on invalid declarations
func MustSchema(nodes ...Node) *Schema {
	s, err := NewSchema(nodes...)
	if err != nil {
		panic(err)
	}
	return s
}

// Exposes reports whether records of kind carry field themselves
func (s *Schema) Exposes(kind Kind, field string) bool {
	return s.exposes[kind].Has(field)
}

// Reaches reports whether kind or any descendant kind carries field
func (s *Schema) Reaches(kind Kind, field string) bool {
	return s.reaches[kind].Has(field)
}

// Relations returns the declared child relationships of kind in traversal order
func (s *Schema) Relations(kind Kind) []Relation {
	return s.nodes[kind].Relations
}

// Kinds lists the declared kinds in lexical order
func (s *Schema) Kinds() []Kind {
	out := make([]Kind, 0, len(s.nodes))
	for k := range s.nodes {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
