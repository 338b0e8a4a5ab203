package phpmodule

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	project, err := os.MkdirTemp("", "pfx-project-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(project)

	// Conventional module layout
	if err := os.MkdirAll(filepath.Join(project, "app", "code", "Acme", "Blog"), 0755); err != nil {
		t.Fatal(err)
	}

	// Explicit module map pointing elsewhere
	mapped := filepath.Join(project, "lib", "catalog")
	if err := os.MkdirAll(mapped, 0755); err != nil {
		t.Fatal(err)
	}
	mapFile := filepath.Join(project, "modules.yaml")
	mapContent := "Magento_Catalog: lib/catalog\n"
	if err := os.WriteFile(mapFile, []byte(mapContent), 0644); err != nil {
		t.Fatal(err)
	}

	resolver, err := NewResolver(project, mapFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("mapped module", func(t *testing.T) {
		path, ok := resolver.Resolve("Magento_Catalog")
		if !ok {
			t.Fatal("expected mapped module to resolve")
		}
		expected, _ := filepath.Abs(mapped)
		if path != expected {
			t.Errorf("expected %s, got %s", expected, path)
		}
	})

	t.Run("conventional module", func(t *testing.T) {
		path, ok := resolver.Resolve("Acme_Blog")
		if !ok {
			t.Fatal("expected conventional module to resolve")
		}
		expected, _ := filepath.Abs(filepath.Join(project, "app", "code", "Acme", "Blog"))
		if path != expected {
			t.Errorf("expected %s, got %s", expected, path)
		}
	})

	t.Run("unknown module", func(t *testing.T) {
		if _, ok := resolver.Resolve("Nope_Module"); ok {
			t.Error("expected unknown module to fail resolution")
		}
	})

	t.Run("name without vendor separator", func(t *testing.T) {
		if _, ok := resolver.Resolve("Standalone"); ok {
			t.Error("expected plain name to fail resolution")
		}
	})
}

func TestNewResolver_MissingMapFile(t *testing.T) {
	project := t.TempDir()

	resolver, err := NewResolver(project, filepath.Join(project, "modules.yaml"))
	if err != nil {
		t.Fatalf("missing map file should not be an error: %v", err)
	}
	if _, ok := resolver.Resolve("Any_Module"); ok {
		t.Error("expected no resolution without map or layout")
	}
}

func TestNewResolver_InvalidMapFile(t *testing.T) {
	project := t.TempDir()
	mapFile := filepath.Join(project, "modules.yaml")
	if err := os.WriteFile(mapFile, []byte("- a\n- list\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewResolver(project, mapFile); err == nil {
		t.Error("expected error for invalid map file")
	}
}
