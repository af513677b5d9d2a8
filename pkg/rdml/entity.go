package rdml

import "strings"

// Only these entities are recognised; anything else passes through as is.
var (
	textEntities  = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
	valueEntities = strings.NewReplacer("&quot;", `"`, "&apos;", "'", "&amp;", "&")
)

// DecodeText replaces the entities allowed in character data.
func DecodeText(s string) string {
	return textEntities.Replace(s)
}

// DecodeValue replaces the entities allowed in quoted attribute values.
func DecodeValue(s string) string {
	return valueEntities.Replace(s)
}
