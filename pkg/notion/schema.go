package notion

import "sort"

// Schema maps property names to their declared kinds. It is fetched once
// per run and read-only afterwards.
type Schema map[string]PropertyKind

// SchemaOf builds a Schema from a database's property definitions.
func SchemaOf(db *Database) Schema {
	schema := make(Schema, len(db.Properties))
	for name, prop := range db.Properties {
		schema[name] = KindFromWire(prop.Type)
	}
	return schema
}

// Kind returns the declared kind for a property, or KindUnknown when the
// property does not exist in the schema.
func (s Schema) Kind(name string) (PropertyKind, bool) {
	kind, ok := s[name]
	if !ok {
		return KindUnknown, false
	}
	return kind, true
}

// PropertyNames returns the schema's property names in sorted order,
// for stable log output.
func (s Schema) PropertyNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
