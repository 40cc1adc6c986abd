// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/serrors"
)

// linearize computes the C3 linearization of obj: the unique monotonic
// total order over obj and its ancestors that preserves each base's own
// linearization and the declared base order. The result starts with obj
// itself. linearize fails with InconsistentInheritance when no such order
// exists; it never silently picks one.
func linearize(s *Schema, obj *Object) ([]uuid.UUID, *serrors.Error) {
	return linearizeRec(s, obj, map[uuid.UUID]bool{})
}

func linearizeRec(s *Schema, obj *Object, seen map[uuid.UUID]bool) ([]uuid.UUID, *serrors.Error) {
	if seen[obj.id] {
		return nil, serrors.NewError(serrors.InconsistentInheritanceErr, nil,
			"circular inheritance involving %v", obj.name)
	}
	seen[obj.id] = true
	defer delete(seen, obj.id)

	// Sequences to merge: each base's linearization, then the declared
	// base order itself.
	var seqs [][]uuid.UUID
	for _, baseID := range obj.bases {
		base, ok := s.byID(baseID)
		if !ok {
			return nil, serrors.NewError(serrors.SchemaIntegrityErr, nil,
				"%v inherits from unknown object %v", obj.name, baseID)
		}
		bl, err := linearizeRec(s, base, seen)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, bl)
	}
	if len(obj.bases) > 0 {
		seqs = append(seqs, append([]uuid.UUID(nil), obj.bases...))
	}

	merged, err := c3Merge(s, obj, seqs)
	if err != nil {
		return nil, err
	}
	return append([]uuid.UUID{obj.id}, merged...), nil
}

// c3Merge repeatedly takes the first head that appears in no sequence's
// tail. If no head qualifies the declared base order is inconsistent.
func c3Merge(s *Schema, obj *Object, seqs [][]uuid.UUID) ([]uuid.UUID, *serrors.Error) {
	var out []uuid.UUID

	for {
		nonempty := seqs[:0]
		for _, seq := range seqs {
			if len(seq) > 0 {
				nonempty = append(nonempty, seq)
			}
		}
		seqs = nonempty
		if len(seqs) == 0 {
			return out, nil
		}

		var next uuid.UUID
		found := false
		for _, seq := range seqs {
			head := seq[0]
			if inAnyTail(head, seqs) {
				continue
			}
			next = head
			found = true
			break
		}
		if !found {
			return nil, serrors.NewError(serrors.InconsistentInheritanceErr, nil,
				"cannot linearize bases of %v: %s", obj.name, describeHeads(s, seqs))
		}

		out = append(out, next)
		for i, seq := range seqs {
			if seq[0] == next {
				seqs[i] = seq[1:]
			}
		}
	}
}

func inAnyTail(id uuid.UUID, seqs [][]uuid.UUID) bool {
	for _, seq := range seqs {
		for _, x := range seq[1:] {
			if x == id {
				return true
			}
		}
	}
	return false
}

func describeHeads(s *Schema, seqs [][]uuid.UUID) string {
	var heads []string
	for _, seq := range seqs {
		if obj, ok := s.byID(seq[0]); ok {
			heads = append(heads, obj.name.String())
		} else {
			heads = append(heads, seq[0].String())
		}
	}
	return "conflicting precedence among " + strings.Join(heads, ", ")
}
