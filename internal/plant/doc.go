// Package plant resolves a validated configuration against a site and a
// module catalog into concrete, simulation-ready PV plant parameters.
//
// A Plant owns its configuration and exclusively owns the engine-side plant
// object it writes to. Every mutator validates first, then pushes the new
// value to the engine, and only then updates its own derived fields, so a
// failed call leaves both sides exactly as they were. A Plant is not safe
// for concurrent use.
package plant
