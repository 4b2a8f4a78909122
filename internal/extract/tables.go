package extract

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Month names per supported language: full, abbreviated and, where the language
// inflects them in dates, genitive forms. Finnish and Croatian are left out because
// their month and era words collide with other languages.
var monthRows = [][12]string{
	// English
	{"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"},
	{"jan", "feb", "mar", "apr", "", "jun", "jul", "aug", "sep", "oct", "nov", "dec"},
	{"", "", "", "", "", "", "", "", "sept", "", "", ""},
	// German
	{"januar", "februar", "märz", "april", "mai", "juni", "juli", "august", "september", "oktober", "november", "dezember"},
	{"jänner", "feber", "mrz", "", "", "", "", "", "", "okt", "", "dez"},
	{"", "", "mär", "", "", "", "", "", "", "", "", ""},
	// French
	{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	{"janv", "févr", "", "avr", "", "", "juil", "", "", "", "", "déc"},
	// Italian
	{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
	{"gen", "", "", "", "mag", "giu", "lug", "ago", "set", "ott", "", "dic"},
	// Spanish
	{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	{"ene", "", "", "abr", "", "", "", "", "setiembre", "", "", ""},
	// Portuguese
	{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	{"", "fev", "", "", "", "", "", "", "", "out", "", ""},
	// Dutch
	{"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus", "september", "oktober", "november", "december"},
	{"", "", "mrt", "", "", "", "", "", "", "", "", ""},
	// Polish: nominative, genitive, short
	{"styczeń", "luty", "marzec", "kwiecień", "maj", "czerwiec", "lipiec", "sierpień", "wrzesień", "październik", "listopad", "grudzień"},
	{"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca", "lipca", "sierpnia", "września", "października", "listopada", "grudnia"},
	{"sty", "lut", "", "kwi", "", "cze", "lip", "sie", "wrz", "paź", "lis", "gru"},
	// Greek: nominative, genitive, short
	{"ιανουάριος", "φεβρουάριος", "μάρτιος", "απρίλιος", "μάιος", "ιούνιος", "ιούλιος", "αύγουστος", "σεπτέμβριος", "οκτώβριος", "νοέμβριος", "δεκέμβριος"},
	{"ιανουαρίου", "φεβρουαρίου", "μαρτίου", "απριλίου", "μαΐου", "ιουνίου", "ιουλίου", "αυγούστου", "σεπτεμβρίου", "οκτωβρίου", "νοεμβρίου", "δεκεμβρίου"},
	{"ιαν", "φεβ", "μαρ", "απρ", "μαΐ", "ιουν", "ιουλ", "αυγ", "σεπ", "οκτ", "νοε", "δεκ"},
	// Swedish
	{"januari", "februari", "mars", "april", "maj", "juni", "juli", "augusti", "september", "oktober", "november", "december"},
	// Danish and Norwegian
	{"januar", "februar", "marts", "april", "maj", "juni", "juli", "august", "september", "oktober", "november", "december"},
	{"", "", "mars", "", "mai", "", "", "", "", "", "", "desember"},
	{"", "", "", "", "", "", "", "", "", "", "", "des"},
	// Czech: nominative, genitive
	{"leden", "únor", "březen", "duben", "květen", "červen", "červenec", "srpen", "září", "říjen", "listopad", "prosinec"},
	{"ledna", "února", "března", "dubna", "května", "června", "července", "srpna", "", "října", "listopadu", "prosince"},
	// Romanian
	{"ianuarie", "februarie", "martie", "aprilie", "mai", "iunie", "iulie", "august", "septembrie", "octombrie", "noiembrie", "decembrie"},
	{"ian", "", "", "", "", "iun", "iul", "", "", "", "noi", ""},
	// Russian: nominative, genitive, short
	{"январь", "февраль", "март", "апрель", "май", "июнь", "июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь"},
	{"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"},
	{"янв", "фев", "мар", "апр", "", "июн", "июл", "авг", "сен", "окт", "ноя", "дек"},
}

// Era words per supported language
var (
	beforeEraTokens = []string{
		// English
		"BC", "B.C.", "BCE", "B.C.E.",
		// German, Dutch
		"v. Chr.", "v.Chr.", "vor Christus",
		// French
		"av. J.-C.", "av. J.C.", "avant J.-C.",
		// Italian, Spanish, Portuguese
		"a.C.", "a. C.", "a. de C.", "a.n.e.",
		// Polish
		"p.n.e.",
		// Greek
		"π.Χ.",
		// Swedish, Danish, Norwegian
		"f.Kr.", "f. Kr.",
		// Czech
		"př. n. l.", "př.n.l.",
		// Romanian
		"î.Hr.", "î. Hr.",
		// Russian
		"до н. э.", "до н.э.",
	}
	afterEraTokens = []string{
		"AD", "A.D.", "CE", "C.E.",
		"n. Chr.", "n.Chr.", "nach Christus",
		"ap. J.-C.", "apr. J.-C.", "ap. J.C.", "après J.-C.",
		"d.C.", "d. C.", "d. de C.", "n.e.",
		"μ.Χ.",
		"e.Kr.", "e. Kr.",
		"n. l.", "n.l.",
		"d.Hr.", "d. Hr.",
		"н. э.", "н.э.",
	}
)

// foldKey builds a case-insensitive lookup key. A Caser is stateful, so each call gets its own.
func foldKey(s string) string {
	return cases.Fold().String(cleanSpaces(s))
}

// monthTable maps folded month words to month numbers. Words that name different
// months in different languages are dropped.
var monthTable = buildMonthTable(monthRows)

func buildMonthTable(rows [][12]string) map[string]int {
	table := make(map[string]int)
	ambiguous := make(map[string]bool)
	for _, row := range rows {
		for i, word := range row {
			if word == "" {
				continue
			}
			key := foldKey(word)
			if existing, ok := table[key]; ok && existing != i+1 {
				ambiguous[key] = true
			}
			table[key] = i + 1
		}
	}
	for key := range ambiguous {
		delete(table, key)
	}
	return table
}

// lookupMonth resolves a month word, ignoring case and a trailing abbreviation dot
func lookupMonth(word string) (int, bool) {
	month, ok := monthTable[foldKey(strings.TrimSuffix(word, "."))]
	return month, ok
}

// eraTable maps folded era words to true for "before" eras
var eraTable = func() map[string]bool {
	table := make(map[string]bool)
	for _, t := range beforeEraTokens {
		table[foldKey(t)] = true
	}
	for _, t := range afterEraTokens {
		table[foldKey(t)] = false
	}
	return table
}()

// eraAlternation is a regexp alternation of every era word, longest first
func eraAlternation() string {
	tokens := append(append([]string{}, beforeEraTokens...), afterEraTokens...)
	sort.Slice(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(quoted, "|")
}
