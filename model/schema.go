package model

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

func enumSchema(title string, tags []string) *jsonschema.Schema {
	enum := make([]any, len(tags))
	for i, t := range tags {
		enum[i] = t
	}
	return &jsonschema.Schema{Type: "string", Title: title, Enum: enum}
}

func (ObjectKind) JSONSchema() *jsonschema.Schema { return enumSchema("ObjectKind", objectKindTags) }
func (RadarKind) JSONSchema() *jsonschema.Schema  { return enumSchema("RadarKind", radarKindTags) }
func (WeaponKind) JSONSchema() *jsonschema.Schema { return enumSchema("WeaponKind", weaponKindTags) }
func (CargoKind) JSONSchema() *jsonschema.Schema  { return enumSchema("CargoKind", cargoKindTags) }
func (ArmorKind) JSONSchema() *jsonschema.Schema  { return enumSchema("ArmorKind", armorKindTags) }

// Schemas returns a JSON Schema for every wire record, keyed by type name.
// Every field is required, mirroring the strict decoder.
func Schemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}

	types := []any{
		ObjectSummary{},
		SimulatedObject{},
		ServerInfo{},
		WorldBounds{},
		DetailRequest{},
	}

	out := make(map[string]*jsonschema.Schema, len(types)+1)
	for _, v := range types {
		s := reflector.Reflect(v)
		name := reflect.TypeOf(v).Name()
		s.Title = name
		out[name] = s
	}

	// Items is embedded, so it must not carry its own $schema or $id.
	items := *out["ObjectSummary"]
	items.Version = ""
	items.ID = ""

	listing := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Type:        "array",
		Title:       "ObjectListing",
		Description: "Response body of the bulk listing query.",
		Items:       &items,
	}
	out["ObjectListing"] = listing
	return out
}
