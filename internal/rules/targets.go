package rules

import (
	"uclint/internal/symbols"
)

// Targets names the framework types the rules look for.
type Targets struct {
	Behavior    symbols.TypeIdentity // base type of serialized behaviours
	Expose      symbols.TypeIdentity // "serialize this private field" attribute
	Description symbols.TypeIdentity // inspector tooltip attribute
}

// DefaultTargets returns the UnityEngine types.
func DefaultTargets() Targets {
	return Targets{
		Behavior:    symbols.TypeIdentity{Namespace: "UnityEngine", Name: "MonoBehaviour", Module: "UnityEngine"},
		Expose:      symbols.TypeIdentity{Namespace: "UnityEngine", Name: "SerializeField", Module: "UnityEngine"},
		Description: symbols.TypeIdentity{Namespace: "UnityEngine", Name: "TooltipAttribute", Module: "UnityEngine"},
	}
}

// Env is the read-only context shared by all rule evaluations of one pass.
type Env struct {
	Universe    *symbols.Universe
	Behavior    symbols.Target
	Expose      symbols.Target
	Description symbols.Target
}

// NewEnv resolves targets in u. Targets missing from u stay usable and match
// by identity only.
func NewEnv(u *symbols.Universe, targets Targets) *Env {
	return &Env{
		Universe:    u,
		Behavior:    u.Target(targets.Behavior),
		Expose:      u.Target(targets.Expose),
		Description: u.Target(targets.Description),
	}
}
