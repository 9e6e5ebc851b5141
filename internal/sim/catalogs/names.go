package catalogs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ParseResourceKind resolves a user-supplied resource name. Near misses fail
// with a suggestion instead of silently matching.
func ParseResourceKind(name string) (ResourceKind, error) {
	names := make([]string, 0, 3)
	for _, k := range ResourceKinds() {
		names = append(names, string(k))
	}
	got, err := resolveName("resource", name, names)
	return ResourceKind(got), err
}

func (c BuildingCatalog) Parse(name string) (BuildingKind, error) {
	got, err := resolveName("building", name, c.BuildingIDs())
	return BuildingKind(got), err
}

func resolveName(what, name string, candidates []string) (string, error) {
	in := strings.ToUpper(strings.TrimSpace(name))
	if in == "" {
		return "", fmt.Errorf("empty %s name", what)
	}
	for _, c := range candidates {
		if c == in {
			return c, nil
		}
	}
	type hit struct {
		name string
		dist int
	}
	var hits []hit
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(in, c)
		if d <= levenshteinLimit(len(c)) {
			hits = append(hits, hit{name: c, dist: d})
		}
	}
	if len(hits) == 0 {
		return "", fmt.Errorf("unknown %s %q", what, name)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].name < hits[j].name
		}
		return hits[i].dist < hits[j].dist
	})
	return "", fmt.Errorf("unknown %s %q (did you mean %s?)", what, name, hits[0].name)
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
