// Package descriptions builds the list of quick-entry description names
// shown to a household: the built-in defaults plus its own additions.
package descriptions

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gastocerto/internal/models"
)

// Defaults are offered to every household and never stored.
var Defaults = []string{
	"Aluguel",
	"Supermercado",
	"Conta de Luz",
	"Conta de Água",
	"Internet/Telefone",
	"Transporte/Combustível",
	"Salário",
	"Lazer",
	"Educação",
}

// DefaultTags returns Defaults as tags with stable "default-N" ids.
func DefaultTags() []models.DescriptionTag {
	tags := make([]models.DescriptionTag, len(Defaults))
	for i, name := range Defaults {
		tags[i] = models.DescriptionTag{
			Base: models.Base{ID: fmt.Sprintf("default-%d", i+1)},
			Name: name,
		}
	}
	return tags
}

// Merge puts the defaults ahead of custom, keeps the first tag seen for each
// exact name and sorts the result by name using Portuguese collation.
func Merge(custom []models.DescriptionTag) []models.DescriptionTag {
	all := append(DefaultTags(), custom...)

	seen := make(map[string]bool, len(all))
	merged := make([]models.DescriptionTag, 0, len(all))
	for _, tag := range all {
		if seen[tag.Name] {
			continue
		}
		seen[tag.Name] = true
		merged = append(merged, tag)
	}

	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(merged, func(i, j int) bool {
		return col.CompareString(merged[i].Name, merged[j].Name) < 0
	})
	return merged
}

// Exists reports whether name is already present, ignoring case and
// surrounding whitespace.
func Exists(tags []models.DescriptionTag, name string) bool {
	name = strings.TrimSpace(name)
	for _, tag := range tags {
		if strings.EqualFold(strings.TrimSpace(tag.Name), name) {
			return true
		}
	}
	return false
}

// Names returns the tag names in order.
func Names(tags []models.DescriptionTag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.Name
	}
	return out
}
