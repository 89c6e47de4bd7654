package entity

// Language 多语言文本的语言代码
type Language string

const (
	LangEN Language = "en"
	LangES Language = "es"
	LangZH Language = "zh"
)

// ParseLanguage 解析语言参数，未知值回落到英文
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LangEN, LangES, LangZH:
		return Language(s)
	}
	return LangEN
}
