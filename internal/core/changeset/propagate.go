package changeset

import "fmt"

// Propagate writes value into field on rec and on every descendant that carries field
// and returns a ChangeSet staging each touched record
//
// When rec itself lacks the field it is left alone and only relations whose subtree
// forwards the field are walked. When rec carries the field every relation is walked
// so deeper descendants are caught. Relations are visited in declaration order.
// There is no cycle detection here; NewSchema refuses cyclic tables
func Propagate(s *Schema, rec Record, field string, value any) (ChangeSet, error) {
	var acc Accumulator
	if err := propagate(s, rec, field, value, &acc); err != nil {
		return nil, err
	}
	return acc.Result(), nil
}

func propagate(s *Schema, rec Record, field string, value any, acc *Accumulator) error {
	if rec == nil {
		return nil
	}
	kind := rec.Kind()
	if _, ok := s.nodes[kind]; !ok {
		return fmt.Errorf("propagate: kind %q not in schema", kind)
	}

	exposes := s.Exposes(kind, field)
	if exposes {
		if err := rec.Set(field, value); err != nil {
			return fmt.Errorf("propagate %s/%d: %w", kind, rec.PK(), err)
		}
		acc.Track(rec, field)
	}

	for _, rel := range s.Relations(kind) {
		if !exposes && !s.Reaches(rel.Child, field) {
			continue
		}
		for _, child := range rel.Children(rec) {
			if err := propagate(s, child, field, value, acc); err != nil {
				return err
			}
		}
	}
	return nil
}
