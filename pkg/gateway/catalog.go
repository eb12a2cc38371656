package gateway

// The gateway returns tools, resources, and prompts as JSON arrays of
// objects whose shape is server-defined beyond a few well-known fields.
// They are kept as decoded mappings rather than structs so unknown fields
// survive a round trip.

// Tool is one entry of the server's tool catalog
type Tool map[string]interface{}

// Name returns the tool's name field, or "" if absent
func (t Tool) Name() string {
	name, _ := t["name"].(string)
	return name
}

// Description returns the tool's description field, or "" if absent
func (t Tool) Description() string {
	description, _ := t["description"].(string)
	return description
}

// HasName reports whether the entry carries a string name field
func (t Tool) HasName() bool {
	_, ok := t["name"].(string)
	return ok
}

// Resource is one entry of the server's resource catalog
type Resource map[string]interface{}

// Name returns the resource's name field, or "" if absent
func (r Resource) Name() string {
	name, _ := r["name"].(string)
	return name
}

// Prompt is one entry of the server's prompt catalog
type Prompt map[string]interface{}

// Name returns the prompt's name field, or "" if absent
func (p Prompt) Name() string {
	name, _ := p["name"].(string)
	return name
}
