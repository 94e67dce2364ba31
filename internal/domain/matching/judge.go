package matching

import "strings"

// Verdict - результат проверки одного ответа
type Verdict struct {
	Accepted         bool   `json:"accepted"`
	Score            int    `json:"score"`
	NormalizedGuess  string `json:"normalized_guess"`
	NormalizedAnswer string `json:"normalized_answer"`
	RawAnswerTitle   string `json:"raw_answer_title"`
}

// Judge сравнивает ответ пользователя с правильным названием
type Judge struct {
	policy Policy
}

// NewJudge создает судью с заданной политикой
func NewJudge(policy Policy) *Judge {
	return &Judge{policy: policy}
}

// Policy возвращает политику судьи
func (j *Judge) Policy() Policy {
	return j.policy
}

// Judge проверяет ответ. normalizedAnswer можно передать заранее
// вычисленным; если он пуст, название нормализуется здесь.
// Состояние раунда не меняется.
func (j *Judge) Judge(rawGuess, rawAnswer, normalizedAnswer string) (Verdict, error) {
	guess := strings.TrimSpace(rawGuess)
	answer := strings.TrimSpace(rawAnswer)
	if guess == "" || answer == "" {
		return Verdict{}, ErrMissingInput
	}

	if normalizedAnswer == "" {
		normalizedAnswer = NormalizeOrFallback(answer)
	}
	normalizedGuess := NormalizeOrFallback(guess)

	score := Ratio(normalizedGuess, normalizedAnswer)

	return Verdict{
		Accepted:         j.policy.Accepts(score, normalizedGuess, normalizedAnswer),
		Score:            score,
		NormalizedGuess:  normalizedGuess,
		NormalizedAnswer: normalizedAnswer,
		RawAnswerTitle:   rawAnswer,
	}, nil
}
