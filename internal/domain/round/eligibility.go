package round

import (
	"fmt"
	"strings"
)

// Eligibility решает, можно ли загадывать трек
type Eligibility func(Track) bool

// Имена фильтров
const (
	EligibilityLatin = "latin"
	EligibilityAny   = "any"
)

// LatinTitle пропускает треки, в названии которых есть хотя бы одна буква A-Z
func LatinTitle(t Track) bool {
	for _, r := range t.Title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// AnyTitle пропускает все треки
func AnyTitle(Track) bool {
	return true
}

// EligibilityByName возвращает фильтр по имени из конфигурации
func EligibilityByName(name string) (Eligibility, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EligibilityLatin:
		return LatinTitle, nil
	case EligibilityAny:
		return AnyTitle, nil
	default:
		return nil, fmt.Errorf("unknown eligibility filter %q", name)
	}
}
