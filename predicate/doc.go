// Package predicate composes optional filter conditions into a single
// immutable predicate.
//
// A Predicate is one of three variants: Empty (no filtering, matches every
// record), Leaf (one field compared with one operator) or Conjunction (two
// predicates joined with AND). Conditions built from absent inputs are Empty
// and vanish when composed:
//
//	p := predicate.All(
//		q.Username.EqOpt(predicate.NonBlank(name)),
//		q.Age.EqPtr(age),
//	)
//
// All, Builder and Predicate.And share one fold, so every composition style
// yields the same tree for the same inputs.
package predicate
