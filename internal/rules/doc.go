// Package rules evaluates field declarations against the serialization
// conventions of Unity-style behaviours.
//
// A Rule is a pure function of a declaration and the read-only Env built for
// one analysis pass. Rules are registered once under their diag.Code in a
// Registry; the Engine runs every enabled rule over a slice of declarations
// and applies per-rule configuration (enable flag, severity).
//
// Every rule first passes the declaration through the same eligibility chain,
// in a fixed order: static, const, read-only, visibility, owning type present,
// owning type derives from the behaviour target. Only then are annotations
// consulted. Any resolution failure makes the rule decline.
package rules
