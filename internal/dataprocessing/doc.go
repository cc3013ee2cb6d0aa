// Package dataprocessing turns bid documents into canonical line items.
//
// # Formats
//
// Documents are dispatched by extension:
//
//	.xml         NS 3459 price document (ParseNS3459)
//	.xlsx/.xls   first worksheet, via internal/tabular
//	anything     delimited text, semicolon first then comma
//
// Tabular sources go through the column normalizer, which maps Norwegian
// and English header aliases onto the canonical fields and falls back to
// column position for item code, description, unit and quantity.
//
// # Usage
//
//	hint, items, err := dataprocessing.ParseDocument("tilbud.xml", data)
//	if err != nil {
//	    // errors.Message(err) is suitable for the batch error list
//	}
//
// Chapter titles are resolved once over all parsed bids:
//
//	titles := dataprocessing.ResolveChapterTitles(bids)
//
// # Numbers
//
// ParseNumber never fails. Unparsable or non-finite input becomes 0, and
// "1 234,50" reads as 1234.5.
//
// The package performs no I/O; callers pass the decoded file bytes.
package dataprocessing
