// Package fix repairs the declarations reported by the rules.
//
// A Provider rewrites one field declaration for one diagnostic. It reads
// only the diagnostic's location, its name argument and the properties the
// rule attached; hierarchy and attribute resolution are never repeated.
// Providers work on immutable syntax trees and return a new tree.
//
// Engine.FixAll resolves every diagnostic against the same original tree and
// folds the rewritten fields in by position, so the result does not depend
// on the order of the diagnostics. Engine.Apply selects candidates across
// files (once, all, or by id) and writes the rendered sources.
package fix
