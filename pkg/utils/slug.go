package utils

import (
	"regexp"
	"strings"
)

var (
	translit = map[rune]string{
		'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
		'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
		'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
		'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
		'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
		'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
		'э': "e", 'ю': "yu", 'я': "ya",
	}
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify превращает произвольное имя в безопасный для URL фрагмент.
// "Фото ямы (1)" -> "foto-yamy-1"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var sb strings.Builder
	for _, r := range s {
		if repl, ok := translit[r]; ok {
			sb.WriteString(repl)
		} else {
			sb.WriteRune(r)
		}
	}

	res := slugSeparators.ReplaceAllString(sb.String(), "-")
	return strings.Trim(res, "-")
}
