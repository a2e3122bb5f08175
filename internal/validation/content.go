package validation

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// profanityList is matched as whole words, case-insensitive
var profanityList = []string{
	"fuck", "shit", "damn", "bitch", "ass", "bastard", "crap",
	"hell", "piss", "dick", "cock", "pussy", "whore", "slut",
}

var (
	profanityPattern = compileWordList(profanityList)

	phonePattern      = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	ssnPattern        = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	creditCardPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	emailInTextRegexp = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)

	piiPatterns = []*regexp.Regexp{
		phonePattern,
		ssnPattern,
		creditCardPattern,
		emailInTextRegexp,
	}
)

func compileWordList(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Sanitize strips markup (script and style blocks with their content),
// normalizes to NFC, trims and collapses whitespace runs to one space.
func Sanitize(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return collapse(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		// html parsing only fails on reader errors
		return collapse(text)
	}
	doc.Find("script, style, noscript, template").Remove()

	return collapse(doc.Text())
}

func collapse(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// ContainsProfanity matches the denylist on word boundaries only,
// so "classic" or "hello" do not trigger.
func ContainsProfanity(text string) bool {
	return profanityPattern.MatchString(text)
}

// ContainsPII flags phone numbers, SSNs, card numbers and email addresses.
func ContainsPII(text string) bool {
	for _, p := range piiPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
