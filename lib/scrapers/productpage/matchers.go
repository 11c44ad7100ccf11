package productpage

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// page is what every matcher sees: the raw markup for regex matchers and the
// parsed document for DOM-hint matchers.
type page struct {
	html string
	doc  *goquery.Document
}

// matchers are tried in declaration order, first hit wins. structured
// (embedded state) matches come first because they are the least likely to
// be false positives, then DOM hints, then free text.
type ratingMatcher func(p page) (float64, bool)
type countMatcher func(p page) (int, bool)

var (
	stateRatingRe    = regexp.MustCompile(`"averageStarRating":[^}]*"value":\s*([0-9.]+)`)
	freeTextRatingRe = regexp.MustCompile(`(?i)([0-9.]+)\s*out\s*of\s*5`)

	stateCountRe     = regexp.MustCompile(`"totalReviewCount":\s*"?([0-9,]+)`)
	globalRatingsRe  = regexp.MustCompile(`(?i)([0-9][0-9,]*)\s*global\s*ratings?`)
	customerReviewRe = regexp.MustCompile(`(?i)([0-9][0-9,]*)\s*customer\s*reviews?`)

	leadingFloatRe = regexp.MustCompile(`[0-9.]+`)
	groupedIntRe   = regexp.MustCompile(`[0-9][0-9,]*`)
)

var ratingMatchers = []ratingMatcher{
	func(p page) (float64, bool) {
		return parseRating(firstGroup(stateRatingRe, p.html))
	},
	func(p page) (float64, bool) {
		text := p.doc.Find(`span[data-hook="rating-out-of-text"]`).First().Text()
		if text == "" {
			text = p.doc.Find(`[data-hook="average-star-rating"] .a-icon-alt`).First().Text()
		}
		return parseRating(leadingFloatRe.FindString(text))
	},
	func(p page) (float64, bool) {
		return parseRating(firstGroup(freeTextRatingRe, p.html))
	},
}

var countMatchers = []countMatcher{
	func(p page) (int, bool) {
		return parseCount(firstGroup(stateCountRe, p.html))
	},
	func(p page) (int, bool) {
		text := p.doc.Find(`[data-hook="total-review-count"]`).First().Text()
		return parseCount(groupedIntRe.FindString(text))
	},
	func(p page) (int, bool) {
		if v, ok := parseCount(firstGroup(globalRatingsRe, p.html)); ok {
			return v, true
		}
		return parseCount(firstGroup(customerReviewRe, p.html))
	},
}

func firstGroup(re *regexp.Regexp, s string) string {
	groups := re.FindStringSubmatch(s)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

func parseRating(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

func extractRating(p page) (float64, bool) {
	for _, match := range ratingMatchers {
		if v, ok := match(p); ok {
			return v, true
		}
	}
	return 0, false
}

func extractReviewCount(p page) (int, bool) {
	for _, match := range countMatchers {
		if v, ok := match(p); ok {
			return v, true
		}
	}
	return 0, false
}
