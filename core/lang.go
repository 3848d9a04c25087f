package core

// UI languages
const (
	LangAr = "ar"
	LangFr = "fr"
)

// CleanLang returns `lang` if it is supported, Arabic otherwise.
func CleanLang(lang string) string {
	if CleanString(lang, true /* lower */) == LangFr {
		return LangFr
	}
	return LangAr
}

// Pick returns `ar` or `fr` depending on `lang`.
func Pick(lang, ar, fr string) string {
	if CleanLang(lang) == LangFr {
		return fr
	}
	return ar
}
