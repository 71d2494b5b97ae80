// Package config defines the format-agnostic configuration model of a PV
// plant, along with the Loader interface for reading plant definitions from
// various file formats.
//
// A Config is a validated, immutable statement of intent: capacity, optional
// layout and sub-model references, a tilt specification and a module type.
// It checks types and basic domains when it is built; anything that needs
// site or catalog data (tilt range, module lookup) is checked by the plant
// resolver. Concrete loaders, such as for HCL or YAML, live in separate
// packages and hand back loosely typed mappings that go through FromMap.
package config
