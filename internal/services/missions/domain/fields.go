package domain

import (
	"fmt"
	"sort"

	"missionsync/internal/core/changeset"
)

// accessor reads and writes one named field of T
type accessor[T any] struct {
	get func(*T) any
	set func(*T, any) error
}

// fieldTable maps column names to accessors; it backs the changeset.Record methods
type fieldTable[T any] map[string]accessor[T]

func (ft fieldTable[T]) has(name string) bool {
	_, ok := ft[name]
	return ok
}

func (ft fieldTable[T]) get(x *T, name string) any {
	if a, ok := ft[name]; ok {
		return a.get(x)
	}
	return nil
}

func (ft fieldTable[T]) set(kind changeset.Kind, x *T, name string, v any) error {
	a, ok := ft[name]
	if !ok {
		return fmt.Errorf("%s has no field %s", kind, name)
	}
	if err := a.set(x, v); err != nil {
		return fmt.Errorf("%s.%s: %w", kind, name, err)
	}
	return nil
}

func (ft fieldTable[T]) names() []string {
	out := make([]string, 0, len(ft))
	for n := range ft {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// field builds an accessor over a typed struct member
func field[T, V any](ptr func(*T) *V) accessor[T] {
	return accessor[T]{
		get: func(x *T) any { return *ptr(x) },
		set: func(x *T, v any) error {
			val, ok := v.(V)
			if !ok {
				var want V
				return fmt.Errorf("want %T, got %T", want, v)
			}
			*ptr(x) = val
			return nil
		},
	}
}

// records widens a typed child slice for schema relations
func records[T changeset.Record](xs []T) []changeset.Record {
	out := make([]changeset.Record, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
