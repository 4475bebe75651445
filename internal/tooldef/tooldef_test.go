package tooldef

import "testing"

func TestLoadManifest(t *testing.T) {
	tools, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(tools))
	}

	names := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		if tool.Name == "" || tool.Description == "" {
			t.Errorf("tool %q has empty name or description", tool.Name)
		}
		names[tool.Name] = tool
	}

	for _, want := range []string{"upload", "upload_batch", "fetch", "fetch_batch", "fetch_public"} {
		if _, ok := names[want]; !ok {
			t.Errorf("manifest missing tool %q", want)
		}
	}
}

func TestUploadToolParameters(t *testing.T) {
	tool, err := Get("upload")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	params := make(map[string]Parameter, len(tool.Parameters))
	for _, p := range tool.Parameters {
		params[p.Name] = p
	}

	for _, required := range []string{"file", "directory"} {
		p, ok := params[required]
		if !ok {
			t.Fatalf("upload tool missing parameter %q", required)
		}
		if !p.Required {
			t.Errorf("parameter %q should be required", required)
		}
	}

	dirMode, ok := params["directory_mode"]
	if !ok {
		t.Fatal("upload tool missing parameter directory_mode")
	}
	if dirMode.Default != "no_subdirectory" {
		t.Errorf("directory_mode default = %q, want no_subdirectory", dirMode.Default)
	}
	if len(dirMode.Options) != 3 {
		t.Errorf("directory_mode options = %v, want 3 entries", dirMode.Options)
	}
}

func TestGetUnknownTool(t *testing.T) {
	if _, err := Get("nope"); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}
