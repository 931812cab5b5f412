// Package templates embeds default configuration and schema files.
package templates

import "embed"

//go:embed settings.yaml rule_schema.json
var FS embed.FS
