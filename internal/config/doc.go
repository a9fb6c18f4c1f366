// Package config loads clustering configuration.
//
// Defaults are compiled in; a `.gocluster.yml` at the repository root
// overlays them, and per-call tool arguments overlay both. A `weights:`
// section in the file replaces the default weight map wholesale rather
// than merging key by key.
package config
