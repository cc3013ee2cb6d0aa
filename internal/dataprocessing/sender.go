package dataprocessing

import "strings"

// senderRoots are the document sections that may carry the sender block
var senderRoots = []string{"Pristilbud", "Prisforesporsel", "ProsjektNS"}

// ExtractSenderName returns the sending company's name from an NS 3459
// document, or "" when the document is unreadable or has no sender.
func ExtractSenderName(data []byte) string {
	root, err := parseXMLTree(data)
	if err != nil {
		return ""
	}
	s := newXMLScope(root)

	for _, section := range senderRoots {
		if name := strings.TrimSpace(s.text(root, section, "Generelt", "Avsender", "Firma", "Navn")); name != "" {
			return name
		}
	}
	return ""
}
