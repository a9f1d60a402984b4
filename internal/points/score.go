package points

import (
	"strings"

	"pawsitivity/internal/domain"

	"gorm.io/gorm"
)

// DefaultPointValue is the worth of one occurrence of a default token.
const DefaultPointValue = 10

// defaultTags is the built-in emoji set recognized when no token rows exist.
var defaultTags = []string{"🐶", "🐱", "🦋", "🐢", "🦄", "🐰", "🐾", "🦩", "🦈", "🦖"}

// DefaultTable returns the built-in token table.
func DefaultTable() map[string]int {
	table := make(map[string]int, len(defaultTags))
	for _, tag := range defaultTags {
		table[tag] = DefaultPointValue
	}
	return table
}

// Score sums the point value of every recognized token occurrence in body.
// Unrecognized text contributes nothing; a body with no tokens scores 0.
func Score(body string, table map[string]int) int {
	total := 0
	for tag, value := range table {
		total += strings.Count(body, tag) * value
	}
	return total
}

// LoadTable reads the admin-managed token table from the database, falling
// back to the built-in defaults when no rows exist.
func LoadTable(db *gorm.DB) (map[string]int, error) {
	var tokens []domain.Token
	if err := db.Find(&tokens).Error; err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return DefaultTable(), nil
	}
	table := make(map[string]int, len(tokens))
	for _, t := range tokens {
		table[t.Tag] = t.Points
	}
	return table, nil
}
