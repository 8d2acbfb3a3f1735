package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	gooseUp   = "-- +goose Up"
	gooseDown = "-- +goose Down"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// migrationFile is one parsed <version>_<name>.sql entry.
type migrationFile struct {
	Version string
	Name    string
	File    string
}

// ValidateDir checks that every .sql file in dir is a well formed goose
// migration with a unique version, and that at least one exists.
func ValidateDir(dir string) error {
	files, err := listMigrations(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}

	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.Version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", f.Version, prev, f.File)
		}
		seen[f.Version] = f.File

		if err := validateFile(filepath.Join(dir, f.File)); err != nil {
			return err
		}
	}
	return nil
}

// listMigrations returns the parsed .sql files in dir ordered by version.
func listMigrations(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var out []migrationFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := migrationFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		out = append(out, migrationFile{Version: m[1], Name: m[2], File: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func validateFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", path, err)
	}
	name := filepath.Base(path)
	txt := string(b)

	up := strings.Index(txt, gooseUp)
	if up < 0 {
		return fmt.Errorf("migration %q missing %q", name, gooseUp)
	}
	down := strings.Index(txt, gooseDown)
	if down < 0 {
		return fmt.Errorf("migration %q missing %q", name, gooseDown)
	}
	if down < up {
		return fmt.Errorf("migration %q has %q before %q", name, gooseDown, gooseUp)
	}
	return nil
}
