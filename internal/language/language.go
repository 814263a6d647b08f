package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
)

// Undetermined is the ISO 639-2 code for an unknown language.
const Undetermined = "und"

// legacyCodes maps deprecated codes to the form written into output files.
var legacyCodes = map[string]string{
	"ger": "deu",
}

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// ToISO3 converts a language code or English word to a three-letter code.
// Three-letter input is kept as written so bibliographic codes such as "fre"
// still match track tags. Two-letter codes missing from the local table are
// resolved through x/text. Empty input yields "und"; anything else that is
// not recognised is returned lower-cased.
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	switch {
	case code == "":
		return Undetermined
	case len(code) == 3:
		return code
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 2 {
		if base, err := xlanguage.ParseBase(code); err == nil {
			return base.ISO3()
		}
	}
	return code
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
// Checks common tag keys: language, LANGUAGE, Language, language_ietf, lang, LANG.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}

// IsPlaceholder reports whether code carries no usable language information.
func IsPlaceholder(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	return code == "" || code == Undetermined
}

// Canonical lower-cases code and replaces legacy codes (ger) with their
// current equivalent. Other codes are returned unchanged.
func Canonical(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if mapped, ok := legacyCodes[code]; ok {
		return mapped
	}
	return code
}

// IsLegacy reports whether code is a deprecated code that Canonical rewrites.
func IsLegacy(code string) bool {
	_, ok := legacyCodes[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Valid reports whether code is a recognised language code. Codes missing
// from the local table are checked against the CLDR data in x/text.
func Valid(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return false
	}
	if code == Undetermined || lookup(code) != nil {
		return true
	}
	if len(code) != 2 && len(code) != 3 {
		return false
	}
	_, err := xlanguage.ParseBase(code)
	return err == nil
}

// NormalizeList lower-cases, trims and deduplicates a list of language codes,
// preserving order. Codes are not remapped so legacy aliases stay distinct.
func NormalizeList(languages []string) []string {
	if len(languages) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		trimmed := strings.ToLower(strings.TrimSpace(lang))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
