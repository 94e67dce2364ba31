// Package matching содержит нормализацию названий треков и нечеткое сравнение ответов.
package matching

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	bracketedPattern   = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	featuringPattern   = regexp.MustCompile(`(?s)\b(?:feat|ft|featuring)\b[.:]?.*$`)
	suffixSeparator    = regexp.MustCompile(` [-–—] `)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]+`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// Normalize приводит название трека к каноническому виду для сравнения.
// Этапы выполняются строго по порядку, результат детерминирован.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := lowercase(raw)
	s = stripBracketed(s)
	s = stripFeaturing(s)
	s = stripSuffix(s)
	s = stripPunctuation(s)
	return collapseWhitespace(s)
}

// NormalizeOrFallback нормализует название, а если от непустого названия
// ничего не осталось, возвращает исходную строку в нижнем регистре.
func NormalizeOrFallback(raw string) string {
	normalized := Normalize(raw)
	if normalized != "" {
		return normalized
	}
	return lowercase(strings.TrimSpace(raw))
}

func lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// stripBracketed заменяет (...), [...] и {...} одним пробелом
func stripBracketed(s string) string {
	return bracketedPattern.ReplaceAllString(s, " ")
}

// stripFeaturing отрезает "feat", "ft", "featuring" и все, что после
func stripFeaturing(s string) string {
	return featuringPattern.ReplaceAllString(s, " ")
}

// stripSuffix оставляет часть до " - remaster", " – live" и т.п.
func stripSuffix(s string) string {
	return suffixSeparator.Split(s, 2)[0]
}

func stripPunctuation(s string) string {
	return punctuationPattern.ReplaceAllString(s, " ")
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
