package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	apperrors "bidcompare/internal/errors"
	"bidcompare/pkg/contracts/domain"
)

// topChapterLevel marks chapter plan entries and references at the top
// classification level
const topChapterLevel = "Type1"

var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseNS3459 parses an NS 3459 price document into line items. Malformed
// XML yields a parsing error and a document without Post elements yields a
// structure error; both name the document.
func ParseNS3459(data []byte, name string) ([]domain.LineItem, error) {
	root, err := parseXMLTree(data)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("Could not read %s", name), err).
			WithContext("file", name)
	}
	s := newXMLScope(root)

	chapterNames := readChapterPlan(s, root)

	posts := s.descendants(root, "Post")
	if len(posts) == 0 {
		return nil, apperrors.NewStructureError(fmt.Sprintf("No posts found in %s", name)).
			WithContext("file", name)
	}

	items := make([]domain.LineItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, parsePost(s, post, chapterNames))
	}
	return items, nil
}

// readChapterPlan maps top level chapter codes to names. The first entry for
// a code wins.
func readChapterPlan(s xmlScope, root *etree.Element) map[string]string {
	names := make(map[string]string)
	plan := s.find(root, "Pristilbud", "ProsjektNS", "Postnrplan")
	if plan == nil {
		return names
	}
	for _, entry := range s.descendants(plan, "PostnrdelKode") {
		if strings.TrimSpace(s.text(entry, "Type")) != topChapterLevel {
			continue
		}
		code := strings.TrimSpace(s.text(entry, "Kode"))
		title := strings.TrimSpace(s.text(entry, "Navn"))
		if code == "" || title == "" {
			continue
		}
		if _, exists := names[code]; !exists {
			names[code] = title
		}
	}
	return names
}

func parsePost(s xmlScope, post *etree.Element, chapterNames map[string]string) domain.LineItem {
	item := domain.LineItem{
		ItemCode:  strings.TrimSpace(s.text(post, "Postnr")),
		UnitPrice: domain.Float(0),
	}
	ownText := strings.TrimSpace(newlineNormalizer.Replace(s.text(post, "Tekst", "Uformatert")))

	if pricing := s.child(post, "Prisinfo"); pricing != nil {
		item.Unit = strings.TrimSpace(s.text(pricing, "Enhet"))
		item.Quantity = ParseNumber(s.text(pricing, "Mengde"))
		item.UnitPrice = domain.Float(ParseNumber(s.text(pricing, "Enhetspris")))
		item.TotalPrice = ParseNumber(s.text(pricing, "Sum"))
		item.IsOption = isTruthy(attr(pricing, "Opsjon"))
	}
	if item.TotalPrice == 0 {
		item.TotalPrice = finite(item.Quantity * item.UnitPrice.Value)
	}

	item.ChapterCode = postChapter(s, post, item.ItemCode)
	item.ChapterTitle = chapterNames[item.ChapterCode]

	spec := &fragments{}
	code := s.child(post, "Kode")
	var codeText *etree.Element
	if code != nil {
		item.ClassificationCode = strings.TrimSpace(s.text(code, "ID"))
		item.ClassificationTitle = strings.TrimSpace(s.text(code, "Kodetekst", "Overskrift"))
		codeText = s.child(code, "Kodetekst")
	}

	spec.add(item.ClassificationTitle)
	spec.add(ownText)
	if codeText != nil {
		for _, u := range s.descendants(codeText, "Uformatert") {
			spec.add(u.Text())
		}
		for _, t := range s.descendants(codeText, "Tekst") {
			if attr(t, "OriginalFormat") == "RTF" {
				continue
			}
			spec.add(s.text(t, "Uformatert"))
			spec.add(t.Text())
		}
	} else {
		for _, u := range s.descendants(post, "Uformatert") {
			spec.add(u.Text())
		}
		for _, t := range s.descendants(post, "Tekst") {
			if attr(t, "OriginalFormat") == "RTF" {
				continue
			}
			spec.add(t.Text())
		}
	}
	if len(spec.parts) == 0 {
		spec.add(ownText)
	}

	item.Specification = strings.Join(spec.parts, "\n\n")
	switch {
	case item.ClassificationTitle != "":
		item.Description = item.ClassificationTitle
	case len(spec.parts) > 0:
		item.Description = spec.parts[0]
	default:
		item.Description = ownText
	}
	return item
}

// postChapter reads the top level chapter reference of a post, falling back
// to the item code segment before the first dot
func postChapter(s xmlScope, post *etree.Element, itemCode string) string {
	for _, part := range s.findAll(post, "Postnrdeler", "Postnrdel") {
		if strings.TrimSpace(s.text(part, "Type")) == topChapterLevel {
			if code := strings.TrimSpace(s.text(part, "Kode")); code != "" {
				return code
			}
			break
		}
	}
	if itemCode == "" {
		return ""
	}
	head, _, _ := strings.Cut(itemCode, ".")
	return head
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "ja", "yes":
		return true
	}
	return false
}

// fragments collects trimmed text parts, dropping blanks and
// case-insensitive repeats
type fragments struct {
	parts []string
	seen  map[string]struct{}
}

func (f *fragments) add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	key := strings.ToLower(text)
	if f.seen == nil {
		f.seen = make(map[string]struct{})
	}
	if _, ok := f.seen[key]; ok {
		return
	}
	f.seen[key] = struct{}{}
	f.parts = append(f.parts, text)
}
