package runtime

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported message languages. English is the source language.
var supportedLanguages = []language.Tag{language.English, language.German}

var germanMessages = map[string]string{
	"syntax error at or near \"%s\"":                      "Syntaxfehler bei »%s«",
	"syntax error at end of input":                        "Syntaxfehler am Ende der Eingabe",
	"unterminated quoted string":                          "Zeichenkette in Anführungszeichen nicht abgeschlossen",
	"unterminated quoted identifier":                      "Bezeichner in Anführungszeichen nicht abgeschlossen",
	"unterminated /* comment":                             "/*-Kommentar nicht abgeschlossen",
	"unterminated dollar-quoted string":                   "Zeichenkette in Dollar-Quotes nicht abgeschlossen",
	"zero-length delimited identifier":                    "Bezeichner in Anführungszeichen hat Länge null",
	"multiple %s clauses not allowed":                     "mehrere %s-Klauseln sind nicht erlaubt",
	"invalid byte sequence for encoding \"UTF8\": 0x%02x": "ungültige Byte-Sequenz für Kodierung »UTF8«: 0x%02x",
	"improper use of \"*\"":                               "unzulässige Verwendung von »*«",
	"parse error":                                         "Parserfehler",
}

// newCatalog builds the message catalog. English messages are their own
// keys.
func newCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range germanMessages {
		if err := b.SetString(language.German, key, msg); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// localeFromEnv picks the message locale the way the C library does:
// LC_ALL, then LC_MESSAGES, then LANG.
func localeFromEnv(getenv func(string) string) string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// matchLocale maps a POSIX locale name such as "de_DE.UTF-8" onto the
// closest supported language, falling back to English.
func matchLocale(name string) language.Tag {
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "C" || name == "POSIX" {
		return language.English
	}

	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.English
	}
	_, idx, conf := language.NewMatcher(supportedLanguages).Match(tag)
	if conf == language.No {
		return language.English
	}
	return supportedLanguages[idx]
}

// newPrinter returns a printer for tag backed by cat.
func newPrinter(tag language.Tag, cat catalog.Catalog) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}
