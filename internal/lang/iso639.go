package lang

import (
	"sort"
	"strings"
)

// isoNames maps the language codes the translation API understands to
// English display names. The API keeps a few legacy codes ("iw", "jw",
// "tl"), so both spellings appear where users may type either.
var isoNames = map[string]string{
	"af":    "Afrikaans",
	"am":    "Amharic",
	"ar":    "Arabic",
	"az":    "Azerbaijani",
	"be":    "Belarusian",
	"bg":    "Bulgarian",
	"bn":    "Bengali",
	"bs":    "Bosnian",
	"ca":    "Catalan",
	"ceb":   "Cebuano",
	"co":    "Corsican",
	"cs":    "Czech",
	"cy":    "Welsh",
	"da":    "Danish",
	"de":    "German",
	"el":    "Greek",
	"en":    "English",
	"eo":    "Esperanto",
	"es":    "Spanish",
	"et":    "Estonian",
	"eu":    "Basque",
	"fa":    "Persian",
	"fi":    "Finnish",
	"fr":    "French",
	"fy":    "Frisian",
	"ga":    "Irish",
	"gd":    "Scottish Gaelic",
	"gl":    "Galician",
	"gu":    "Gujarati",
	"ha":    "Hausa",
	"haw":   "Hawaiian",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hmn":   "Hmong",
	"hr":    "Croatian",
	"ht":    "Haitian Creole",
	"hu":    "Hungarian",
	"hy":    "Armenian",
	"id":    "Indonesian",
	"ig":    "Igbo",
	"is":    "Icelandic",
	"it":    "Italian",
	"iw":    "Hebrew",
	"ja":    "Japanese",
	"jw":    "Javanese",
	"ka":    "Georgian",
	"kk":    "Kazakh",
	"km":    "Khmer",
	"kn":    "Kannada",
	"ko":    "Korean",
	"ku":    "Kurdish",
	"ky":    "Kyrgyz",
	"la":    "Latin",
	"lb":    "Luxembourgish",
	"lo":    "Lao",
	"lt":    "Lithuanian",
	"lv":    "Latvian",
	"mg":    "Malagasy",
	"mi":    "Maori",
	"mk":    "Macedonian",
	"ml":    "Malayalam",
	"mn":    "Mongolian",
	"mr":    "Marathi",
	"ms":    "Malay",
	"mt":    "Maltese",
	"my":    "Burmese",
	"ne":    "Nepali",
	"nl":    "Dutch",
	"no":    "Norwegian",
	"ny":    "Chichewa",
	"or":    "Odia",
	"pa":    "Punjabi",
	"pl":    "Polish",
	"ps":    "Pashto",
	"pt":    "Portuguese",
	"ro":    "Romanian",
	"ru":    "Russian",
	"rw":    "Kinyarwanda",
	"sd":    "Sindhi",
	"si":    "Sinhala",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"sm":    "Samoan",
	"sn":    "Shona",
	"so":    "Somali",
	"sq":    "Albanian",
	"sr":    "Serbian",
	"st":    "Sesotho",
	"su":    "Sundanese",
	"sv":    "Swedish",
	"sw":    "Swahili",
	"ta":    "Tamil",
	"te":    "Telugu",
	"tg":    "Tajik",
	"th":    "Thai",
	"tk":    "Turkmen",
	"tl":    "Filipino",
	"tr":    "Turkish",
	"tt":    "Tatar",
	"ug":    "Uyghur",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"uz":    "Uzbek",
	"vi":    "Vietnamese",
	"xh":    "Xhosa",
	"yi":    "Yiddish",
	"yo":    "Yoruba",
	"zh-cn": "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
	"zu":    "Zulu",
}

// Name returns the English display name for a language code, falling
// back to the uppercased code when the table has no entry.
func Name(code string) string {
	if name, ok := isoNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// Known reports whether the code is one the translation API accepts.
func Known(code string) bool {
	_, ok := isoNames[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Option is one selectable language for API consumers.
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Options lists every supported language sorted by display name.
func Options() []Option {
	options := make([]Option, 0, len(isoNames))
	for code, name := range isoNames {
		options = append(options, Option{Code: code, Name: name})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Name == options[j].Name {
			return options[i].Code < options[j].Code
		}
		return options[i].Name < options[j].Name
	})
	return options
}
