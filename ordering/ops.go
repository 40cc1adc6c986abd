// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ordering

import (
	"fmt"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/schema"
	"github.com/halcyondb/halcyon/serrors"
)

// OrderOperations rewrites a batch of schema operations into a valid
// application order. Creates and alters are ordered so every referenced
// object exists before its referrer; drops are ordered on reversed edges so
// dependents are dropped before their dependencies (computed against base,
// the snapshot the drops will apply to).
//
// A mutual forward reference between two creates is not a cycle: the engine
// splits one create into a declare stub plus a completion alter that sets
// the deferred reference fields once their targets exist. Only cycles made
// entirely of hard edges (inheritance, pointer sources) are reported as
// CyclicDependency.
func OrderOperations(base *schema.Schema, ops []schema.Operation) ([]schema.Operation, *serrors.Error) {
	byKey := map[string]schema.Operation{}
	items := make([]Item, 0, len(ops))

	creates := map[names.QualName]string{}
	drops := map[names.QualName]string{}
	for i, op := range ops {
		key := opKey(op, i)
		byKey[key] = op
		switch op.(type) {
		case *schema.CreateObject:
			creates[op.TargetName()] = key
		case *schema.DropObject:
			drops[op.TargetName()] = key
		}
	}

	for i, op := range ops {
		item := Item{Key: opKey(op, i), DeclOrder: i}
		switch op := op.(type) {
		case *schema.CreateObject:
			item.DependsOn = createDeps(op, creates)
		case *schema.AlterObject:
			item.DependsOn = alterDeps(op, creates)
		case *schema.DropObject:
			item.DependsOn = dropDeps(base, op, drops)
		}
		items = append(items, item)
	}

	res, err := Sort(items)
	if err != nil {
		return nil, err
	}

	// Deferred reference fields per create key, merged across splits.
	deferredTargets := map[string]map[names.QualName]bool{}
	for _, split := range res.Splits {
		m := deferredTargets[split.Key]
		if m == nil {
			m = map[names.QualName]bool{}
			deferredTargets[split.Key] = m
		}
		for _, dep := range split.Deferred {
			if op, ok := byKey[dep]; ok {
				m[op.TargetName()] = true
			}
		}
	}

	var out []schema.Operation
	var completions []schema.Operation
	for _, key := range res.Order {
		op := byKey[key]
		targets, isSplit := deferredTargets[key]
		if !isSplit {
			out = append(out, op)
			continue
		}
		stub, completion := splitCreate(op.(*schema.CreateObject), targets)
		out = append(out, stub)
		if completion != nil {
			completions = append(completions, completion)
		}
	}
	// Completion steps run after every create in the batch exists.
	out = append(out, completions...)
	return out, nil
}

func opKey(op schema.Operation, idx int) string {
	switch op.(type) {
	case *schema.CreateObject:
		return "create:" + op.TargetName().String()
	case *schema.AlterObject:
		return fmt.Sprintf("alter:%v#%d", op.TargetName(), idx)
	case *schema.DropObject:
		return "drop:" + op.TargetName().String()
	}
	return fmt.Sprintf("op:%v#%d", op.TargetName(), idx)
}

// createDeps computes the edges of a create: inheritance and pointer
// sources are hard, all other reference fields are deferrable.
func createDeps(op *schema.CreateObject, creates map[names.QualName]string) []Dep {
	var deps []Dep
	for _, base := range op.Bases {
		if key, ok := creates[base]; ok {
			deps = append(deps, Dep{Key: key})
		}
	}
	for _, fi := range op.Fields {
		hard := fi.Field == "source"
		for _, ref := range fi.Value.Refs() {
			if key, ok := creates[ref]; ok {
				deps = append(deps, Dep{Key: key, Deferrable: !hard})
			}
		}
	}
	return deps
}

// alterDeps computes the edges of an alter: everything it touches must
// already exist.
func alterDeps(op *schema.AlterObject, creates map[names.QualName]string) []Dep {
	var deps []Dep
	if key, ok := creates[op.Name]; ok {
		deps = append(deps, Dep{Key: key})
	}
	for _, base := range op.AddBases {
		if key, ok := creates[base]; ok {
			deps = append(deps, Dep{Key: key})
		}
	}
	for _, fi := range op.SetFields {
		for _, ref := range fi.Value.Refs() {
			if key, ok := creates[ref]; ok {
				deps = append(deps, Dep{Key: key})
			}
		}
	}
	return deps
}

// dropDeps reverses the dependency direction: the drop of an object waits
// for the drops of everything that references it.
func dropDeps(base *schema.Schema, op *schema.DropObject, drops map[names.QualName]string) []Dep {
	if base == nil {
		return nil
	}
	obj, err := base.Get(op.Name)
	if err != nil {
		return nil // apply reports the missing object
	}

	var deps []Dep
	base.Objects(func(other *schema.Object) bool {
		if other.ID() == obj.ID() {
			return false
		}
		key, beingDropped := drops[other.Name()]
		if !beingDropped {
			return false
		}
		if referencesObject(base, other, obj) {
			deps = append(deps, Dep{Key: key})
		}
		return false
	})
	return deps
}

func referencesObject(s *schema.Schema, from, to *schema.Object) bool {
	for _, baseID := range from.Bases() {
		if baseID == to.ID() {
			return true
		}
	}
	for _, field := range from.FieldNames() {
		def, _ := from.Field(field)
		switch v := def.Value.(type) {
		case schema.RefVal:
			if v.ID == to.ID() {
				return true
			}
		case schema.RefListVal:
			for _, id := range v.IDs {
				if id == to.ID() {
					return true
				}
			}
		}
	}
	return false
}

// splitCreate removes the fields referencing deferred targets from the
// create and moves them to a completion alter. The alter keeps the create's
// location so diagnostics still point at the declaration.
func splitCreate(op *schema.CreateObject, deferred map[names.QualName]bool) (*schema.CreateObject, *schema.AlterObject) {
	stub := &schema.CreateObject{
		ID:       op.ID,
		Name:     op.Name,
		Kind:     op.Kind,
		Abstract: op.Abstract,
		Bases:    op.Bases,
		Location: op.Location,
	}
	completion := &schema.AlterObject{
		Name:     op.Name,
		Location: op.Location,
	}

	for _, fi := range op.Fields {
		moved := false
		for _, ref := range fi.Value.Refs() {
			if deferred[ref] {
				moved = true
				break
			}
		}
		if moved {
			completion.SetFields = append(completion.SetFields, fi)
		} else {
			stub.Fields = append(stub.Fields, fi)
		}
	}

	if len(completion.SetFields) == 0 {
		return stub, nil
	}
	return stub, completion
}
