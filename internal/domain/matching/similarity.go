package matching

import (
	"math"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Ratio возвращает степень похожести двух строк в диапазоне 0..100.
//
// Считается как доля совпадающих символов от суммарной длины строк:
// удвоенная длина наибольшей общей подпоследовательности делится на сумму длин.
// Длины считаются в символах, а не в байтах. Идентичные строки дают 100,
// строки без общих символов дают 0.
func Ratio(a, b string) int {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}

	common := edlib.LCS(a, b)
	ratio := float64(2*common) / float64(total)
	return int(math.Round(ratio * 100))
}
