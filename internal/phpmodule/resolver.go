package phpmodule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resolver maps PHP module names like "Magento_Catalog" to directories on
// disk. An explicit module map file takes precedence; otherwise the standard
// app/code/<Vendor>/<Name> layout under the project is tried.
type Resolver struct {
	projectPath string
	mapped      map[string]string
}

// NewResolver creates a Resolver for the given project. The map file is
// optional; if it exists it must be a YAML mapping of module name to path
// (absolute, or relative to the project).
func NewResolver(projectPath, mapFile string) (*Resolver, error) {
	r := &Resolver{
		projectPath: projectPath,
		mapped:      make(map[string]string),
	}

	data, err := os.ReadFile(mapFile)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read module map %s: %w", mapFile, err)
	}

	if err := yaml.Unmarshal(data, &r.mapped); err != nil {
		return nil, fmt.Errorf("parse module map %s: %w", mapFile, err)
	}

	return r, nil
}

// Resolve returns the absolute directory for a module name, and whether the
// module is known at all.
func (r *Resolver) Resolve(module string) (string, bool) {
	if p, ok := r.mapped[module]; ok {
		return r.absolute(p), true
	}

	// Convention: Vendor_Name lives at app/code/Vendor/Name
	parts := strings.SplitN(module, "_", 2)
	if len(parts) == 2 {
		p := filepath.Join(r.projectPath, "app", "code", parts[0], parts[1])
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return r.absolute(p), true
		}
	}

	return "", false
}

func (r *Resolver) absolute(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.projectPath, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
