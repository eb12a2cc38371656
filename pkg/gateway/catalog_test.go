package gateway

import "testing"

func TestToolAccessors(t *testing.T) {
	tests := []struct {
		name            string
		tool            Tool
		wantName        string
		wantDescription string
		wantHasName     bool
	}{
		{
			name:            "complete entry",
			tool:            Tool{"name": "echo", "description": "echoes input"},
			wantName:        "echo",
			wantDescription: "echoes input",
			wantHasName:     true,
		},
		{
			name:        "missing description",
			tool:        Tool{"name": "sum"},
			wantName:    "sum",
			wantHasName: true,
		},
		{
			name:        "missing name",
			tool:        Tool{"description": "nameless"},
			wantName:    "",
			wantHasName: false,
		},
		{
			name:        "non-string name",
			tool:        Tool{"name": 42},
			wantName:    "",
			wantHasName: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tool.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got := tt.tool.Description(); got != tt.wantDescription {
				t.Errorf("Description() = %q, want %q", got, tt.wantDescription)
			}
			if got := tt.tool.HasName(); got != tt.wantHasName {
				t.Errorf("HasName() = %v, want %v", got, tt.wantHasName)
			}
		})
	}
}

func TestResourceAndPromptNames(t *testing.T) {
	r := Resource{"name": "users", "uri": "/users"}
	if r.Name() != "users" {
		t.Errorf("Resource.Name() = %q, want users", r.Name())
	}

	p := Prompt{"name": "greeting"}
	if p.Name() != "greeting" {
		t.Errorf("Prompt.Name() = %q, want greeting", p.Name())
	}

	// Unknown fields survive decoding untouched
	if r["uri"] != "/users" {
		t.Error("extra fields should be preserved")
	}
}
