// Package data embeds the default deinflection rule catalog.
package data

import _ "embed"

// Rules is the default catalog in the reason → rule list format read by
// config.ParseRules.
//
//go:embed deinflect.yaml
var Rules []byte
