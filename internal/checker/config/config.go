// Package config holds the small set of process-wide rendering flags
// this module's packages consult, mirroring the teacher's
// internal/config/constants.go (config.IsTestMode, config.IsLSPMode):
// package-level flags toggled by callers/tests rather than threaded
// through every function signature, because they only ever affect how
// a type is printed, never how it is inferred.
package config

// NormalizeVarNames collapses every type variable's printed name to
// "t?" instead of "t<id>", for deterministic golden-file comparisons
// that don't want to depend on the exact id a given run allocates.
// Mirrors the teacher's config.IsTestMode toggling TVar.String().
var NormalizeVarNames = false
