// Package symbols models the type graph that rules query.
//
// It has two halves:
//
//   - the hierarchy resolver: TypeIdentity values, TypeNode chains with a
//     single base link each, modules grouped in a Universe, and the is-or-
//     inherits walks (by reference and by component-wise identity);
//   - the attribute index: the annotations applied to a Declaration, each with
//     a resolved identity and positional constructor-argument values.
//
// A Universe is populated by a builder (internal/binder, internal/catalog)
// and sealed before analysis. After Seal nothing in the graph changes, so any
// number of goroutines may query it.
//
// Cross-module comparison is name based: two unrelated modules that declare a
// type with the same name in the same namespace under the same module name
// collide. TypeIdentity keeps that rule explicit and testable.
package symbols
