// Package schemas embeds the JSON Schema documents used to validate structured data.
package schemas

import _ "embed"

// Resume is the envelope schema for generated resume records.
//
//go:embed resume.schema.json
var Resume string

// RoleMapping is the schema for the industry role mapping table.
//
//go:embed role_mapping.schema.json
var RoleMapping string
