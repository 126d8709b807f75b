package storage

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)
	tableNamePattern     = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)
)

// BuildTablePartPath returns <prefix>/<table>/part-<sequence>.parquet.
func BuildTablePartPath(tablePrefix, tableName string, sequence int) (string, error) {
	prefix, err := cleanTablePrefix(tablePrefix)
	if err != nil {
		return "", err
	}
	if err := ValidateTableName(tableName); err != nil {
		return "", err
	}
	if sequence < 0 {
		return "", fmt.Errorf("sequence must be >= 0")
	}
	return path.Join(prefix, tableName, fmt.Sprintf("part-%05d.parquet", sequence)), nil
}

// GroupTableParts maps table name to the sorted parquet keys found directly
// under <prefix>/<table>/. Keys that do not follow that layout are skipped.
func GroupTableParts(tablePrefix string, objects []ObjectInfo) (map[string][]string, error) {
	prefix, err := cleanTablePrefix(tablePrefix)
	if err != nil {
		return nil, err
	}
	grouped := map[string][]string{}
	for _, object := range objects {
		rest, ok := strings.CutPrefix(strings.TrimPrefix(object.Key, "/"), prefix+"/")
		if !ok {
			continue
		}
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || !strings.HasSuffix(parts[1], ".parquet") {
			continue
		}
		if ValidateTableName(parts[0]) != nil {
			continue
		}
		grouped[parts[0]] = append(grouped[parts[0]], object.Key)
	}
	for table := range grouped {
		sort.Strings(grouped[table])
	}
	return grouped, nil
}

// ValidateTableName accepts names usable as unquoted SQL identifiers so the
// language model can reference them without quoting.
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}

func cleanTablePrefix(prefix string) (string, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return "", fmt.Errorf("table prefix is required")
	}
	for _, component := range strings.Split(prefix, "/") {
		if !pathComponentPattern.MatchString(component) {
			return "", fmt.Errorf("invalid table prefix component: %q", component)
		}
	}
	return prefix, nil
}
