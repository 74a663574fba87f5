// pkg/normalizer/stopwords.go
package normalizer

// stopwords is the standard English stop-word list (NLTK's set): function
// words and high-frequency auxiliaries that carry no sentiment or topical
// value. Comparison happens after stripping, so contraction entries only
// ever match when tokens still carry apostrophes.
var stopwords = map[string]struct{}{
	// Pronouns
	"i": {}, "me": {}, "my": {}, "myself": {}, "we": {}, "our": {}, "ours": {},
	"ourselves": {}, "you": {}, "you're": {}, "you've": {}, "you'll": {},
	"you'd": {}, "your": {}, "yours": {}, "yourself": {}, "yourselves": {},
	"he": {}, "him": {}, "his": {}, "himself": {}, "she": {}, "she's": {},
	"her": {}, "hers": {}, "herself": {}, "it": {}, "it's": {}, "its": {},
	"itself": {}, "they": {}, "them": {}, "their": {}, "theirs": {},
	"themselves": {},
	// Interrogatives and demonstratives
	"what": {}, "which": {}, "who": {}, "whom": {}, "this": {}, "that": {},
	"that'll": {}, "these": {}, "those": {},
	// Forms of be/have/do
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "having": {}, "do": {},
	"does": {}, "did": {}, "doing": {},
	// Articles and conjunctions
	"a": {}, "an": {}, "the": {}, "and": {}, "but": {}, "if": {}, "or": {},
	"because": {}, "as": {}, "until": {}, "while": {},
	// Prepositions
	"of": {}, "at": {}, "by": {}, "for": {}, "with": {}, "about": {},
	"against": {}, "between": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "to": {}, "from": {},
	"up": {}, "down": {}, "in": {}, "out": {}, "on": {}, "off": {}, "over": {},
	"under": {},
	// Adverbs and quantifiers
	"again": {}, "further": {}, "then": {}, "once": {}, "here": {},
	"there": {}, "when": {}, "where": {}, "why": {}, "how": {}, "all": {},
	"any": {}, "both": {}, "each": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "no": {}, "nor": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "so": {}, "than": {}, "too": {},
	"very": {},
	// Modal and contraction fragments
	"s": {}, "t": {}, "can": {}, "will": {}, "just": {}, "don": {},
	"don't": {}, "should": {}, "should've": {}, "now": {}, "d": {}, "ll": {},
	"m": {}, "o": {}, "re": {}, "ve": {}, "y": {}, "ain": {}, "aren": {},
	"aren't": {}, "couldn": {}, "couldn't": {}, "didn": {}, "didn't": {},
	"doesn": {}, "doesn't": {}, "hadn": {}, "hadn't": {}, "hasn": {},
	"hasn't": {}, "haven": {}, "haven't": {}, "isn": {}, "isn't": {},
	"ma": {}, "mightn": {}, "mightn't": {}, "mustn": {}, "mustn't": {},
	"needn": {}, "needn't": {}, "shan": {}, "shan't": {}, "shouldn": {},
	"shouldn't": {}, "wasn": {}, "wasn't": {}, "weren": {}, "weren't": {},
	"won": {}, "won't": {}, "wouldn": {}, "wouldn't": {},
}

// IsStopword reports whether the token is in the English stop-word set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// StopwordCount returns the size of the stop-word set. The resource checker
// uses it to verify the list is present.
func StopwordCount() int {
	return len(stopwords)
}
