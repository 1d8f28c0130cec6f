package lang

import "strings"

// Flag ties a Unicode flag emoji to the language a reaction with it
// requests. Several flags share a language; the resolver scans the table
// in order, so entries stay sorted by country.
type Flag struct {
	Emoji   string
	Code    string
	Name    string
	Country string
}

var flagTable = []Flag{
	{Emoji: "🇦🇪", Code: "ar", Name: "Arabic", Country: "United Arab Emirates"},
	{Emoji: "🇦🇫", Code: "fa", Name: "Persian", Country: "Afghanistan"},
	{Emoji: "🇦🇱", Code: "sq", Name: "Albanian", Country: "Albania"},
	{Emoji: "🇦🇲", Code: "hy", Name: "Armenian", Country: "Armenia"},
	{Emoji: "🇦🇷", Code: "es", Name: "Spanish", Country: "Argentina"},
	{Emoji: "🇦🇹", Code: "de", Name: "German", Country: "Austria"},
	{Emoji: "🇦🇺", Code: "en", Name: "English", Country: "Australia"},
	{Emoji: "🇦🇿", Code: "az", Name: "Azerbaijani", Country: "Azerbaijan"},
	{Emoji: "🇧🇦", Code: "bs", Name: "Bosnian", Country: "Bosnia and Herzegovina"},
	{Emoji: "🇧🇩", Code: "bn", Name: "Bengali", Country: "Bangladesh"},
	{Emoji: "🇧🇪", Code: "nl", Name: "Dutch", Country: "Belgium"},
	{Emoji: "🇧🇬", Code: "bg", Name: "Bulgarian", Country: "Bulgaria"},
	{Emoji: "🇧🇴", Code: "es", Name: "Spanish", Country: "Bolivia"},
	{Emoji: "🇧🇷", Code: "pt", Name: "Portuguese", Country: "Brazil"},
	{Emoji: "🇧🇾", Code: "be", Name: "Belarusian", Country: "Belarus"},
	{Emoji: "🇨🇦", Code: "en", Name: "English", Country: "Canada"},
	{Emoji: "🇨🇩", Code: "fr", Name: "French", Country: "Democratic Republic of the Congo"},
	{Emoji: "🇨🇭", Code: "de", Name: "German", Country: "Switzerland"},
	{Emoji: "🇨🇱", Code: "es", Name: "Spanish", Country: "Chile"},
	{Emoji: "🇨🇳", Code: "zh-CN", Name: "Chinese (Simplified)", Country: "China"},
	{Emoji: "🇨🇴", Code: "es", Name: "Spanish", Country: "Colombia"},
	{Emoji: "🇨🇷", Code: "es", Name: "Spanish", Country: "Costa Rica"},
	{Emoji: "🇨🇺", Code: "es", Name: "Spanish", Country: "Cuba"},
	{Emoji: "🇨🇿", Code: "cs", Name: "Czech", Country: "Czechia"},
	{Emoji: "🇩🇪", Code: "de", Name: "German", Country: "Germany"},
	{Emoji: "🇩🇰", Code: "da", Name: "Danish", Country: "Denmark"},
	{Emoji: "🇩🇴", Code: "es", Name: "Spanish", Country: "Dominican Republic"},
	{Emoji: "🇩🇿", Code: "ar", Name: "Arabic", Country: "Algeria"},
	{Emoji: "🇪🇨", Code: "es", Name: "Spanish", Country: "Ecuador"},
	{Emoji: "🇪🇪", Code: "et", Name: "Estonian", Country: "Estonia"},
	{Emoji: "🇪🇬", Code: "ar", Name: "Arabic", Country: "Egypt"},
	{Emoji: "🇪🇸", Code: "es", Name: "Spanish", Country: "Spain"},
	{Emoji: "🇪🇹", Code: "am", Name: "Amharic", Country: "Ethiopia"},
	{Emoji: "🇫🇮", Code: "fi", Name: "Finnish", Country: "Finland"},
	{Emoji: "🇫🇷", Code: "fr", Name: "French", Country: "France"},
	{Emoji: "🇬🇧", Code: "en", Name: "English", Country: "United Kingdom"},
	{Emoji: "🇬🇪", Code: "ka", Name: "Georgian", Country: "Georgia"},
	{Emoji: "🇬🇷", Code: "el", Name: "Greek", Country: "Greece"},
	{Emoji: "🇬🇹", Code: "es", Name: "Spanish", Country: "Guatemala"},
	{Emoji: "🇭🇰", Code: "zh-TW", Name: "Chinese (Traditional)", Country: "Hong Kong"},
	{Emoji: "🇭🇳", Code: "es", Name: "Spanish", Country: "Honduras"},
	{Emoji: "🇭🇷", Code: "hr", Name: "Croatian", Country: "Croatia"},
	{Emoji: "🇭🇹", Code: "ht", Name: "Haitian Creole", Country: "Haiti"},
	{Emoji: "🇭🇺", Code: "hu", Name: "Hungarian", Country: "Hungary"},
	{Emoji: "🇮🇩", Code: "id", Name: "Indonesian", Country: "Indonesia"},
	{Emoji: "🇮🇪", Code: "ga", Name: "Irish", Country: "Ireland"},
	{Emoji: "🇮🇱", Code: "iw", Name: "Hebrew", Country: "Israel"},
	{Emoji: "🇮🇳", Code: "hi", Name: "Hindi", Country: "India"},
	{Emoji: "🇮🇶", Code: "ar", Name: "Arabic", Country: "Iraq"},
	{Emoji: "🇮🇷", Code: "fa", Name: "Persian", Country: "Iran"},
	{Emoji: "🇮🇸", Code: "is", Name: "Icelandic", Country: "Iceland"},
	{Emoji: "🇮🇹", Code: "it", Name: "Italian", Country: "Italy"},
	{Emoji: "🇯🇲", Code: "en", Name: "English", Country: "Jamaica"},
	{Emoji: "🇯🇴", Code: "ar", Name: "Arabic", Country: "Jordan"},
	{Emoji: "🇯🇵", Code: "ja", Name: "Japanese", Country: "Japan"},
	{Emoji: "🇰🇪", Code: "sw", Name: "Swahili", Country: "Kenya"},
	{Emoji: "🇰🇬", Code: "ky", Name: "Kyrgyz", Country: "Kyrgyzstan"},
	{Emoji: "🇰🇭", Code: "km", Name: "Khmer", Country: "Cambodia"},
	{Emoji: "🇰🇵", Code: "ko", Name: "Korean", Country: "North Korea"},
	{Emoji: "🇰🇷", Code: "ko", Name: "Korean", Country: "South Korea"},
	{Emoji: "🇰🇼", Code: "ar", Name: "Arabic", Country: "Kuwait"},
	{Emoji: "🇰🇿", Code: "kk", Name: "Kazakh", Country: "Kazakhstan"},
	{Emoji: "🇱🇦", Code: "lo", Name: "Lao", Country: "Laos"},
	{Emoji: "🇱🇧", Code: "ar", Name: "Arabic", Country: "Lebanon"},
	{Emoji: "🇱🇰", Code: "si", Name: "Sinhala", Country: "Sri Lanka"},
	{Emoji: "🇱🇹", Code: "lt", Name: "Lithuanian", Country: "Lithuania"},
	{Emoji: "🇱🇺", Code: "lb", Name: "Luxembourgish", Country: "Luxembourg"},
	{Emoji: "🇱🇻", Code: "lv", Name: "Latvian", Country: "Latvia"},
	{Emoji: "🇲🇦", Code: "ar", Name: "Arabic", Country: "Morocco"},
	{Emoji: "🇲🇩", Code: "ro", Name: "Romanian", Country: "Moldova"},
	{Emoji: "🇲🇪", Code: "sr", Name: "Serbian", Country: "Montenegro"},
	{Emoji: "🇲🇰", Code: "mk", Name: "Macedonian", Country: "North Macedonia"},
	{Emoji: "🇲🇲", Code: "my", Name: "Burmese", Country: "Myanmar"},
	{Emoji: "🇲🇳", Code: "mn", Name: "Mongolian", Country: "Mongolia"},
	{Emoji: "🇲🇹", Code: "mt", Name: "Maltese", Country: "Malta"},
	{Emoji: "🇲🇽", Code: "es", Name: "Spanish", Country: "Mexico"},
	{Emoji: "🇲🇾", Code: "ms", Name: "Malay", Country: "Malaysia"},
	{Emoji: "🇳🇬", Code: "en", Name: "English", Country: "Nigeria"},
	{Emoji: "🇳🇮", Code: "es", Name: "Spanish", Country: "Nicaragua"},
	{Emoji: "🇳🇱", Code: "nl", Name: "Dutch", Country: "Netherlands"},
	{Emoji: "🇳🇴", Code: "no", Name: "Norwegian", Country: "Norway"},
	{Emoji: "🇳🇵", Code: "ne", Name: "Nepali", Country: "Nepal"},
	{Emoji: "🇳🇿", Code: "en", Name: "English", Country: "New Zealand"},
	{Emoji: "🇴🇲", Code: "ar", Name: "Arabic", Country: "Oman"},
	{Emoji: "🇵🇦", Code: "es", Name: "Spanish", Country: "Panama"},
	{Emoji: "🇵🇪", Code: "es", Name: "Spanish", Country: "Peru"},
	{Emoji: "🇵🇭", Code: "tl", Name: "Filipino", Country: "Philippines"},
	{Emoji: "🇵🇰", Code: "ur", Name: "Urdu", Country: "Pakistan"},
	{Emoji: "🇵🇱", Code: "pl", Name: "Polish", Country: "Poland"},
	{Emoji: "🇵🇷", Code: "es", Name: "Spanish", Country: "Puerto Rico"},
	{Emoji: "🇵🇹", Code: "pt", Name: "Portuguese", Country: "Portugal"},
	{Emoji: "🇵🇾", Code: "es", Name: "Spanish", Country: "Paraguay"},
	{Emoji: "🇶🇦", Code: "ar", Name: "Arabic", Country: "Qatar"},
	{Emoji: "🇷🇴", Code: "ro", Name: "Romanian", Country: "Romania"},
	{Emoji: "🇷🇸", Code: "sr", Name: "Serbian", Country: "Serbia"},
	{Emoji: "🇷🇺", Code: "ru", Name: "Russian", Country: "Russia"},
	{Emoji: "🇷🇼", Code: "rw", Name: "Kinyarwanda", Country: "Rwanda"},
	{Emoji: "🇸🇦", Code: "ar", Name: "Arabic", Country: "Saudi Arabia"},
	{Emoji: "🇸🇪", Code: "sv", Name: "Swedish", Country: "Sweden"},
	{Emoji: "🇸🇬", Code: "en", Name: "English", Country: "Singapore"},
	{Emoji: "🇸🇮", Code: "sl", Name: "Slovenian", Country: "Slovenia"},
	{Emoji: "🇸🇰", Code: "sk", Name: "Slovak", Country: "Slovakia"},
	{Emoji: "🇸🇴", Code: "so", Name: "Somali", Country: "Somalia"},
	{Emoji: "🇸🇾", Code: "ar", Name: "Arabic", Country: "Syria"},
	{Emoji: "🇹🇭", Code: "th", Name: "Thai", Country: "Thailand"},
	{Emoji: "🇹🇯", Code: "tg", Name: "Tajik", Country: "Tajikistan"},
	{Emoji: "🇹🇲", Code: "tk", Name: "Turkmen", Country: "Turkmenistan"},
	{Emoji: "🇹🇳", Code: "ar", Name: "Arabic", Country: "Tunisia"},
	{Emoji: "🇹🇷", Code: "tr", Name: "Turkish", Country: "Turkey"},
	{Emoji: "🇹🇼", Code: "zh-TW", Name: "Chinese (Traditional)", Country: "Taiwan"},
	{Emoji: "🇹🇿", Code: "sw", Name: "Swahili", Country: "Tanzania"},
	{Emoji: "🇺🇦", Code: "uk", Name: "Ukrainian", Country: "Ukraine"},
	{Emoji: "🇺🇬", Code: "en", Name: "English", Country: "Uganda"},
	{Emoji: "🇺🇸", Code: "en", Name: "English", Country: "United States"},
	{Emoji: "🇺🇾", Code: "es", Name: "Spanish", Country: "Uruguay"},
	{Emoji: "🇺🇿", Code: "uz", Name: "Uzbek", Country: "Uzbekistan"},
	{Emoji: "🇻🇪", Code: "es", Name: "Spanish", Country: "Venezuela"},
	{Emoji: "🇻🇳", Code: "vi", Name: "Vietnamese", Country: "Vietnam"},
	{Emoji: "🇾🇪", Code: "ar", Name: "Arabic", Country: "Yemen"},
	{Emoji: "🇿🇦", Code: "af", Name: "Afrikaans", Country: "South Africa"},
	{Emoji: "🇿🇼", Code: "en", Name: "English", Country: "Zimbabwe"},
	{Emoji: "🏴󠁧󠁢󠁳󠁣󠁴󠁿", Code: "gd", Name: "Scottish Gaelic", Country: "Scotland"},
	{Emoji: "🏴󠁧󠁢󠁷󠁬󠁳󠁿", Code: "cy", Name: "Welsh", Country: "Wales"},
}

var flagByEmoji = make(map[string]Flag, len(flagTable))

func init() {
	for _, f := range flagTable {
		flagByEmoji[f.Emoji] = f
	}
}

// FlagByEmoji looks up the flag entry for a reaction emoji.
func FlagByEmoji(emoji string) (Flag, bool) {
	f, ok := flagByEmoji[emoji]
	return f, ok
}

// FindFlagEmoji returns the first flag emoji contained in text, for
// translate-on-message handling. Returns false when text carries none.
func FindFlagEmoji(text string) (Flag, bool) {
	for _, f := range flagTable {
		if strings.Contains(text, f.Emoji) {
			return f, true
		}
	}
	return Flag{}, false
}
