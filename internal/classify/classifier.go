// Package classify assigns a topic category to a candidate item by
// scoring its text against static keyword lexicons.
package classify

import "strings"

// Lexicon maps one category to the keyword stems that indicate it.
// Declaration order matters: it breaks score ties.
type Lexicon struct {
	Category string
	Keywords []string
}

// Keywords are Albanian stems so that inflected forms still match
// ("futbollit", "ndeshjes"). Substring matching is deliberate.
var defaultLexicons = []Lexicon{
	{Category: "sport", Keywords: []string{
		"sport", "futboll", "basketboll", "tenis", "olimpik", "kampionat",
		"ndeshj", "skuadr", "lojtar", "gol", "liga", "ekip",
	}},
	{Category: "kulturë", Keywords: []string{
		"kultur", "muzik", "film", "teatr", "libr", "festival",
		"ekspozit", "letërsi", "arkitektur",
	}},
	{Category: "botë", Keywords: []string{
		"botë", "ndërkombëtar", "global", "trump", "putin", "nato",
		"ukrain", "rusi", "kina", "shba", "amerik", "europ",
	}},
	{Category: "ekonomi", Keywords: []string{
		"ekonomi", "treg", "burs", "inflacion", "tatim", "buxhet",
		"investim", "biznes", "eksport",
	}},
	{Category: "teknologji", Keywords: []string{
		"teknologji", "internet", "aplikacion", "inteligjenc",
		"softuer", "kompjuter", "smartfon",
	}},
	{Category: "shëndetësi", Keywords: []string{
		"shëndet", "spital", "mjek", "vaksin", "sëmundj", "virus",
		"pacient",
	}},
	{Category: "politikë", Keywords: []string{
		"politik", "qeveri", "parlament", "zgjedhj", "kryeminist",
		"president", "minist", "opozit",
	}},
}

// Classifier scores candidate text against its lexicons.
type Classifier struct {
	lexicons []Lexicon
}

// New builds a classifier with the default topic lexicons.
func New() *Classifier {
	return &Classifier{lexicons: defaultLexicons}
}

// NewWithLexicons builds a classifier from explicit lexicons.
func NewWithLexicons(lexicons []Lexicon) *Classifier {
	return &Classifier{lexicons: lexicons}
}

// Classify returns the highest-scoring category for the given text.
// A keyword occurrence in the title counts double one in the
// description. Ties keep the earlier lexicon; a zero total falls back
// to the provided default category.
func (c *Classifier) Classify(title, description, defaultCategory string) string {
	lowTitle := strings.ToLower(title)
	lowDesc := strings.ToLower(description)

	best := defaultCategory
	bestScore := 0

	for _, lex := range c.lexicons {
		score := 0
		for _, keyword := range lex.Keywords {
			score += 2 * strings.Count(lowTitle, keyword)
			score += strings.Count(lowDesc, keyword)
		}
		if score > bestScore {
			bestScore = score
			best = lex.Category
		}
	}

	return best
}
