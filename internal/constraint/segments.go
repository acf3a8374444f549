package constraint

// Hard-coded segment-symbol classification used by the alignment and
// prosodic constraint variants (MainLeft, HeadDep, Precede, Contiguity,
// Trochee, FootBinarity, Rightmost, and the pharyngeal-context
// supplements). This mirrors the reference implementation's own
// hard-coded Yimas-toy-language classification (consonants t/p/k/c,
// vowels a/i/u/v) rather than deriving classes from the feature table:
// these constraints are about prosodic structure (syllables, feet,
// stress, edges), which the feature table has no dedicated features for.
var (
	consonants  = map[string]bool{"t": true, "p": true, "k": true, "c": true}
	vowels      = map[string]bool{"a": true, "i": true, "u": true, "v": true}
	highVowels  = map[string]bool{"i": true, "u": true}
	lowVowels   = map[string]bool{"a": true}
	pharyngeals = map[string]bool{"H": true}
)

const stressMarker = "'"
const syllableBoundaryMarker = "."

func isConsonant(symbol string) bool { return consonants[symbol] }
func isVowel(symbol string) bool     { return vowels[symbol] }
func isSyllableNucleus(symbol string) bool {
	return isVowel(symbol)
}
func isHighVowel(symbol string) bool { return highVowels[symbol] }
func isNonLowVowel(symbol string) bool {
	return isVowel(symbol) && !lowVowels[symbol]
}
func isPharyngeal(symbol string) bool       { return pharyngeals[symbol] }
func isStressMarker(symbol string) bool     { return symbol == stressMarker }
func isSyllableBoundary(symbol string) bool { return symbol == syllableBoundaryMarker }

// classOf classifies symbol into one of the coarse classes an alignment
// constraint understands, returning ok=false for anything outside
// consonant/vowel/stress-marker/pharyngeal — the caller turns that into a
// *errs.ConstraintError naming the offending constraint.
func classOf(symbol string) (class string, ok bool) {
	switch {
	case isConsonant(symbol):
		return "consonant", true
	case isVowel(symbol):
		return "vowel", true
	case isStressMarker(symbol):
		return "stress", true
	case isPharyngeal(symbol):
		return "pharyngeal", true
	default:
		return "", false
	}
}
