// Package bom derives the bill of materials of a planned PV installation.
//
// Each derivation step is encapsulated in one Rule, and rule output is collected
// and consolidated by the Engine. The package has no I/O: every call receives a
// complete snapshot of configuration, catalog and defaults.
//
// Two behaviors are heuristics rather than physical requirements: when line
// items are merged the longer description is kept, and the protection of the
// inverter circuit is dimensioned from the first configured inverter only.
//
// Decal selection prefers the backup decal, then the battery decal, then the
// plain one, by which subsystem is present. A preferred decal that is not set
// or not in the catalog falls through to the next candidate instead of
// dropping the decal.
package bom
