package dataprocessing

import (
	"strings"
	"unicode"

	"bidcompare/pkg/contracts/domain"
)

const (
	// MaxTitleLength is the longest chapter title kept, in characters
	MaxTitleLength = 120

	shoutedRatio = 0.6
)

// ResolveChapterTitles derives one title per chapter code from the raw line
// items of all bids, in bid then row order. An explicit chapter title wins,
// then the classification heading, the first specification line and the
// description. The first accepted title for a code is final.
func ResolveChapterTitles(bids []domain.BidDocument) map[string]string {
	titles := make(map[string]string)
	for _, bid := range bids {
		for _, item := range bid.Items {
			code := strings.TrimSpace(item.ChapterCode)
			if code == "" {
				continue
			}
			if _, done := titles[code]; done {
				continue
			}

			if title := NormalizeTitle(item.ChapterTitle); title != "" {
				titles[code] = truncateTitle(title)
				continue
			}

			for _, candidate := range titleCandidates(item) {
				if strings.EqualFold(candidate, "sum") {
					continue
				}
				title := NormalizeTitle(candidate)
				if title == "" || strings.EqualFold(title, "sum") {
					continue
				}
				titles[code] = truncateTitle(title)
				break
			}
		}
	}
	return titles
}

func titleCandidates(item domain.LineItem) []string {
	var out []string
	if v := strings.TrimSpace(item.ClassificationTitle); v != "" {
		out = append(out, v)
	}
	if spec := strings.TrimSpace(item.Specification); spec != "" {
		first, _, _ := strings.Cut(spec, "\n")
		if first = strings.TrimSpace(first); first != "" {
			out = append(out, first)
		}
	}
	if v := strings.TrimSpace(item.Description); v != "" {
		out = append(out, v)
	}
	return out
}

// NormalizeTitle collapses whitespace and trims trailing punctuation. Text
// that is mostly upper case is title-cased.
func NormalizeTitle(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	collapsed = strings.TrimRight(collapsed, " .;-")
	if collapsed == "" {
		return ""
	}
	if upperRatio(collapsed) < shoutedRatio {
		return collapsed
	}

	return titleCase(collapsed)
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "O'BRIEN" becomes "O'Brien".
func titleCase(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	afterLetter := false
	for _, r := range text {
		if afterLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToTitle(r))
		}
		afterLetter = unicode.IsLetter(r)
	}
	return b.String()
}

func upperRatio(text string) float64 {
	var letters, upper int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= MaxTitleLength {
		return title
	}
	return string(runes[:MaxTitleLength-3]) + "..."
}
