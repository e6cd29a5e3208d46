// Package config loads richedit settings.
//
// Sources are merged with later sources overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  4. Set (command-line flags)│  ← Highest priority
//	├─────────────────────────────┤
//	│  3. RICHEDIT_* environment  │
//	├─────────────────────────────┤
//	│  2. Config file (.toml/.yml)│
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Values are read through dot paths ("history.maxEntries") or through the
// typed section accessors, which return snapshots.
package config
