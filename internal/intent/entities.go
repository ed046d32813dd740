package intent

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// term pairs a literal as it may appear in a query with the canonical value
// reported for it.
type term struct {
	literal string
	value   string
}

// Declaration order is the match priority: the first term present in the
// query wins, even when a later term also appears.
var cropTerms = foldTerms([]term{
	{"गेहूं", "wheat"}, {"गेहूँ", "wheat"}, {"गेंहू", "wheat"}, {"wheat", "wheat"},
	{"धान", "rice"}, {"चावल", "rice"}, {"rice", "rice"}, {"paddy", "rice"},
	{"मक्का", "corn"}, {"भुट्टा", "corn"}, {"corn", "corn"}, {"maize", "corn"},
	{"सरसों", "mustard"}, {"mustard", "mustard"},
	{"चना", "chickpea"}, {"चने", "chickpea"}, {"chickpea", "chickpea"},
	{"मटर", "pea"}, {"pea", "pea"}, {"peas", "pea"},
	{"आलू", "potato"}, {"potato", "potato"}, {"potatoes", "potato"},
	{"प्याज", "onion"}, {"प्याज़", "onion"}, {"onion", "onion"}, {"onions", "onion"},
	{"टमाटर", "tomato"}, {"tomato", "tomato"}, {"tomatoes", "tomato"},
	{"गन्ना", "sugarcane"}, {"गन्ने", "sugarcane"}, {"sugarcane", "sugarcane"},
	{"कपास", "cotton"}, {"cotton", "cotton"},
	{"सोयाबीन", "soybean"}, {"soybean", "soybean"},
	{"बाजरा", "pearl_millet"}, {"bajra", "pearl_millet"},
	{"मसूर", "lentil"}, {"lentil", "lentil"},
	{"मूंगफली", "groundnut"}, {"groundnut", "groundnut"}, {"peanut", "groundnut"},
})

var fertilizerTerms = foldTerms([]term{
	{"यूरिया", "urea"}, {"urea", "urea"},
	{"डीएपी", "dap"}, {"dap", "dap"},
	{"एनपीके", "npk"}, {"npk", "npk"},
	{"एसएसपी", "ssp"}, {"ssp", "ssp"},
	{"पोटाश", "potash"}, {"potash", "potash"}, {"mop", "potash"},
	{"जिंक", "zinc"}, {"zinc", "zinc"},
	{"वर्मीकम्पोस्ट", "vermicompost"}, {"vermicompost", "vermicompost"},
	{"कम्पोस्ट", "compost"}, {"कंपोस्ट", "compost"}, {"compost", "compost"},
	{"गोबर", "manure"}, {"manure", "manure"},
})

var problemTerms = foldTerms([]term{
	{"दीमक", "termite"}, {"termite", "termite"}, {"termites", "termite"},
	{"माहू", "aphid"}, {"aphid", "aphid"}, {"aphids", "aphid"},
	{"टिड्डी", "locust"}, {"locust", "locust"},
	{"झुलसा", "blight"}, {"blight", "blight"},
	{"उकठा", "wilt"}, {"मुरझा", "wilt"}, {"wilt", "wilt"},
	{"फफूंद", "fungus"}, {"fungus", "fungus"},
	{"पीलापन", "yellowing"}, {"पीली", "yellowing"}, {"yellowing", "yellowing"},
	{"खरपतवार", "weeds"}, {"weeds", "weeds"}, {"weed", "weeds"},
	{"सूखा", "drought"}, {"drought", "drought"},
	{"बाढ़", "flood"}, {"flood", "flood"},
	{"इल्ली", "pests"}, {"सुंडी", "pests"}, {"कीड़े", "pests"}, {"कीड़ा", "pests"}, {"कीट", "pests"},
	{"pest", "pests"}, {"pests", "pests"}, {"insects", "pests"},
	{"रोग", "disease"}, {"बीमारी", "disease"}, {"disease", "disease"},
})

var timeTerms = foldSet(
	"आज", "कल", "परसों", "अभी", "सुबह", "शाम",
	"today", "tomorrow", "yesterday", "tonight", "now",
)

// Units are listed longest first within each family; the regexp engine takes
// the first alternative that matches. The pattern is normalized like the text
// it runs against so nukta letters compare equal.
var quantityPattern = regexp.MustCompile(norm.NFC.String(
	`([0-9०-९]+(?:[.,][0-9०-९]+)?)\s*(` +
		`किलोग्राम|किलो|क्विंटल|टन|ग्राम|मिलीलीटर|लीटर|एकड़|बीघा|हेक्टेयर|बोरी|बोरे|बोरा|बैग|` +
		`kilograms|kilogram|kilos|kilo|kgs|kg|quintals|quintal|qtl|tonnes|tonne|tons|ton|` +
		`grams|gram|gms|gm|g|millilitres|milliliters|ml|litres|litre|liters|liter|l|` +
		`acres|acre|bighas|bigha|hectares|hectare|ha|bags|bag)`,
))

// ExtractEntities runs every extractor over text. It never fails; empty input
// yields empty Entities.
func ExtractEntities(text string) Entities {
	folded := Fold(text)
	tokens := Tokenize(text)
	return Entities{
		Crop:       ExtractCrop(tokens),
		Fertilizer: ExtractFertilizer(tokens),
		Problem:    ExtractProblem(tokens),
		Quantities: extractQuantities(folded),
		Time:       ExtractTime(tokens),
	}
}

// ExtractCrop returns the canonical crop for the first crop term, in declared
// order, that occurs among tokens.
func ExtractCrop(tokens []string) string {
	return firstTerm(cropTerms, tokens)
}

// ExtractFertilizer follows the same first-hit policy as ExtractCrop.
func ExtractFertilizer(tokens []string) string {
	return firstTerm(fertilizerTerms, tokens)
}

// ExtractProblem follows the same first-hit policy as ExtractCrop.
func ExtractProblem(tokens []string) string {
	return firstTerm(problemTerms, tokens)
}

// ExtractQuantities returns every "<number> <unit>" match in text, in order.
func ExtractQuantities(text string) []string {
	return extractQuantities(Fold(text))
}

// ExtractTime returns every temporal keyword among tokens, in order.
func ExtractTime(tokens []string) []string {
	var out []string
	for _, token := range tokens {
		if _, ok := timeTerms[token]; ok {
			out = append(out, token)
		}
	}
	return out
}

func firstTerm(terms []term, tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	present := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		present[token] = struct{}{}
	}
	for _, t := range terms {
		if _, ok := present[t.literal]; ok {
			return t.value
		}
	}
	return ""
}

func extractQuantities(folded string) []string {
	var out []string
	for _, loc := range quantityPattern.FindAllStringSubmatchIndex(folded, -1) {
		end := loc[1]
		// Reject units that are only the prefix of a longer word, e.g. "किलोमीटर".
		if next, _ := utf8.DecodeRuneInString(folded[end:]); end < len(folded) && isWordRune(next) {
			continue
		}
		number := folded[loc[2]:loc[3]]
		unit := folded[loc[4]:loc[5]]
		if loc[3] == loc[4] {
			out = append(out, number+unit)
		} else {
			out = append(out, number+" "+unit)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)
}

func foldSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[Fold(w)] = struct{}{}
	}
	return set
}

func foldTerms(terms []term) []term {
	for i := range terms {
		terms[i].literal = Fold(terms[i].literal)
	}
	return terms
}

// Kinds lists the entity kinds present in e, in a stable order.
func (e Entities) Kinds() []string {
	present := e.Map()
	var kinds []string
	for _, k := range []string{"crop", "fertilizer", "problem", "quantities", "time"} {
		if _, ok := present[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
