package content

import (
	"strings"
	"unicode"
)

// Sentiment is the polarity and subjectivity of a text.
type Sentiment struct {
	Polarity     float64 // [-1, 1]
	Subjectivity float64 // [0, 1]
}

type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// lexicon scores common English opinion words.
var lexicon = map[string]lexiconEntry{
	"amazing":       {0.6, 0.9},
	"awesome":       {1.0, 1.0},
	"awful":         {-1.0, 1.0},
	"bad":           {-0.7, 0.67},
	"beautiful":     {0.85, 1.0},
	"best":          {1.0, 0.3},
	"better":        {0.5, 0.5},
	"boring":        {-1.0, 1.0},
	"broken":        {-0.4, 0.4},
	"cheap":         {0.4, 0.7},
	"clean":         {0.37, 0.69},
	"clear":         {0.1, 0.38},
	"comfortable":   {0.4, 0.7},
	"cool":          {0.35, 0.65},
	"dangerous":     {-0.6, 0.9},
	"delicious":     {1.0, 1.0},
	"difficult":     {-0.5, 1.0},
	"dirty":         {-0.6, 0.8},
	"disappointed":  {-0.75, 0.75},
	"easy":          {0.43, 0.83},
	"effective":     {0.6, 0.8},
	"excellent":     {1.0, 1.0},
	"expensive":     {-0.5, 0.7},
	"fantastic":     {0.4, 0.9},
	"fast":          {0.2, 0.6},
	"favorite":      {0.5, 1.0},
	"fine":          {0.42, 0.5},
	"free":          {0.4, 0.8},
	"friendly":      {0.38, 0.5},
	"fun":           {0.3, 0.2},
	"good":          {0.7, 0.6},
	"great":         {0.8, 0.75},
	"happy":         {0.8, 1.0},
	"hard":          {-0.29, 0.54},
	"hate":          {-0.8, 0.9},
	"helpful":       {0.5, 0.6},
	"high":          {0.16, 0.54},
	"horrible":      {-1.0, 1.0},
	"important":     {0.4, 1.0},
	"impressive":    {1.0, 1.0},
	"interesting":   {0.5, 0.5},
	"love":          {0.5, 0.6},
	"lovely":        {0.5, 0.75},
	"low":           {0.0, 0.3},
	"nice":          {0.6, 1.0},
	"perfect":       {1.0, 1.0},
	"pleasant":      {0.73, 0.97},
	"poor":          {-0.4, 0.6},
	"popular":       {0.6, 0.8},
	"powerful":      {0.3, 1.0},
	"reliable":      {0.6, 0.8},
	"sad":           {-0.5, 1.0},
	"safe":          {0.5, 0.5},
	"secure":        {0.4, 0.6},
	"simple":        {0.0, 0.36},
	"slow":          {-0.3, 0.4},
	"strong":        {0.43, 0.73},
	"stupid":        {-0.8, 1.0},
	"terrible":      {-1.0, 1.0},
	"ugly":          {-0.7, 1.0},
	"unfortunately": {-0.5, 1.0},
	"useful":        {0.3, 0.0},
	"useless":       {-0.5, 0.2},
	"wonderful":     {1.0, 1.0},
	"worse":         {-0.4, 0.6},
	"worst":         {-1.0, 1.0},
	"wrong":         {-0.5, 0.9},
}

// intensifiers scale the polarity and subjectivity of the next opinion word.
var intensifiers = map[string]float64{
	"absolutely": 1.3,
	"extremely":  1.5,
	"highly":     1.3,
	"incredibly": 1.4,
	"quite":      1.1,
	"really":     1.2,
	"so":         1.3,
	"too":        1.2,
	"very":       1.3,
}

var negations = map[string]struct{}{
	"never": {}, "no": {}, "not": {}, "nothing": {}, "nobody": {},
	"dont": {}, "don't": {}, "isnt": {}, "isn't": {}, "wasnt": {}, "wasn't": {},
	"cant": {}, "can't": {}, "wont": {}, "won't": {}, "without": {},
}

// negationFactor is applied to the polarity of a negated opinion word.
const negationFactor = -0.5

// AnalyzeSentiment scores text by averaging the lexicon entries of its
// opinion words. A preceding negation flips and halves polarity; a preceding
// intensifier scales both measures. Text without opinion words is neutral
// and objective.
func AnalyzeSentiment(text string) Sentiment {
	tokens := tokenize(text)

	var polarity, subjectivity float64
	var matched int
	for i, tok := range tokens {
		entry, ok := lexicon[tok]
		if !ok {
			continue
		}
		p, s := entry.polarity, entry.subjectivity
		if i > 0 {
			if f, ok := intensifiers[tokens[i-1]]; ok {
				p, s = p*f, s*f
			}
		}
		if negated(tokens, i) {
			p *= negationFactor
		}
		polarity += clamp(p, -1, 1)
		subjectivity += clamp(s, 0, 1)
		matched++
	}
	if matched == 0 {
		return Sentiment{}
	}
	return Sentiment{
		Polarity:     polarity / float64(matched),
		Subjectivity: subjectivity / float64(matched),
	}
}

// negated reports whether one of the two tokens before i is a negation.
func negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if _, ok := negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
