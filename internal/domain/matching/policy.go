package matching

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Имена политик принятия ответа
const (
	PolicyRatio   = "ratio"
	PolicyLenient = "lenient"
)

// Policy описывает правило, по которому оценка похожести превращается в вердикт
type Policy struct {
	Name string `json:"name"`
	// LongThreshold применяется, если нормализованный ответ длиннее ShortLength символов
	LongThreshold int `json:"long_threshold"`
	// ShortThreshold применяется к коротким ответам
	ShortThreshold int `json:"short_threshold"`
	ShortLength    int `json:"short_length"`
	// AllowSubstring засчитывает точное совпадение и вхождение одной строки в другую
	AllowSubstring bool `json:"allow_substring"`
}

// RatioPolicy - политика по умолчанию: только порог похожести, 93 для длинных названий и 88 для коротких
var RatioPolicy = Policy{
	Name:           PolicyRatio,
	LongThreshold:  93,
	ShortThreshold: 88,
	ShortLength:    4,
}

// LenientPolicy засчитывает вхождение подстроки и снижает порог до 75
var LenientPolicy = Policy{
	Name:           PolicyLenient,
	LongThreshold:  75,
	ShortThreshold: 75,
	ShortLength:    4,
	AllowSubstring: true,
}

// PolicyByName возвращает политику по имени
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyRatio:
		return RatioPolicy, nil
	case PolicyLenient:
		return LenientPolicy, nil
	default:
		return Policy{}, fmt.Errorf("unknown judge policy %q", name)
	}
}

// Validate проверяет пороги политики
func (p Policy) Validate() error {
	if p.LongThreshold < 0 || p.LongThreshold > 100 {
		return fmt.Errorf("long threshold must be within 0..100, got %d", p.LongThreshold)
	}
	if p.ShortThreshold < 0 || p.ShortThreshold > 100 {
		return fmt.Errorf("short threshold must be within 0..100, got %d", p.ShortThreshold)
	}
	if p.ShortLength < 0 {
		return fmt.Errorf("short length must not be negative, got %d", p.ShortLength)
	}
	return nil
}

// Threshold возвращает минимальную оценку для данного нормализованного ответа
func (p Policy) Threshold(normalizedAnswer string) int {
	if utf8.RuneCountInString(normalizedAnswer) > p.ShortLength {
		return p.LongThreshold
	}
	return p.ShortThreshold
}

// Accepts решает, засчитывается ли ответ
func (p Policy) Accepts(score int, normalizedGuess, normalizedAnswer string) bool {
	if p.AllowSubstring && normalizedGuess != "" && normalizedAnswer != "" {
		if normalizedGuess == normalizedAnswer ||
			strings.Contains(normalizedAnswer, normalizedGuess) ||
			strings.Contains(normalizedGuess, normalizedAnswer) {
			return true
		}
	}
	return score >= p.Threshold(normalizedAnswer)
}
