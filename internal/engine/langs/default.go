package langs

// defaultNames is the built-in display-name table served by the info
// endpoint and used to name detection results.
var defaultNames = map[string]string{
	"eng": "English",
	"pol": "Polish",
	"deu": "German",
	"fra": "French",
	"spa": "Spanish",
	"ita": "Italian",
	"tur": "Turkish",
	"por": "Portuguese",
	"rus": "Russian",
	"ukr": "Ukrainian",
	"nld": "Dutch",
	"bul": "Bulgarian",
	"ell": "Greek",
	"swe": "Swedish",
	"hun": "Hungarian",
	"gle": "Irish",
	"lav": "Latvian",
	"dan": "Danish",
	"fin": "Finnish",
	"ara": "Arabic",
	"heb": "Hebrew",
	"zho": "Chinese",
	"hin": "Hindi",
	"jpn": "Japanese",
	"fas": "Persian",
	"kor": "Korean",
	"hye": "Armenian",
	"swa": "Swahili",
	"ber": "Berber",
	"kab": "Kabyle",
	"ces": "Czech",
	"lat": "Latin",
	"nor": "Norwegian",
	"ron": "Moldavian, Moldovan, Romanian",
	"slk": "Slovak",
	"hbs": "Serbo-Croatian",
	"mkd": "Macedonian",
}

// Default returns the built-in display-name table.
func Default() *Names {
	return New(defaultNames)
}
