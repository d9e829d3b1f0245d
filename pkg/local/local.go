package local

import (
	"fmt"
	"strings"
)

type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
	Deu = Language("de")
	Fra = Language("fr")
	Spa = Language("es")
	Ita = Language("it")
	Jpn = Language("jp")
	Chn = Language("cn")
	Kor = Language("kr")
	Ara = Language("ar")
	Tur = Language("tr")
	Por = Language("pt")
)

// Languages lists every supported UI language in display order.
var Languages = []Language{Eng, Rus, Deu, Fra, Spa, Ita, Jpn, Chn, Kor, Ara, Tur, Por}

// ParseLanguage accepts a language code in any case ("EN", "ru", ...).
func ParseLanguage(s string) (Language, bool) {
	code := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, language := range Languages {
		if language == code {
			return language, true
		}
	}
	return "", false
}

type Localization struct {
	language Language
	text     string
}

type TextSet struct {
	Default          string
	translationsText map[Language]string
}

func NewTrans(language Language, text string) Localization {
	return Localization{
		language: language,
		text:     text,
	}
}

func NewSet(defaultText string, localizations ...Localization) TextSet {
	set := TextSet{
		Default:          defaultText,
		translationsText: make(map[Language]string),
	}
	for _, localization := range localizations {
		set.translationsText[localization.language] = localization.text
	}
	return set
}

func (l TextSet) Text(language Language) string {
	if text, ok := l.translationsText[language]; ok {
		return text
	}
	return l.Default
}

func (l TextSet) DefaultFormat(a ...any) string {
	return fmt.Sprintf(l.Default, a...)
}

func (l TextSet) Format(language Language, a ...any) string {
	if text, ok := l.translationsText[language]; ok {
		return fmt.Sprintf(text, a...)
	}
	return l.DefaultFormat(a...)
}
