package testutil

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// XMLPost describes one Post element of a generated NS 3459 document
type XMLPost struct {
	ItemCode  string
	Text      string
	Unit      string
	Quantity  float64
	UnitPrice float64
	Total     float64
	Option    bool
	Chapter   string // top level Postnrdel code, omitted when empty
	Code      string // Kode/ID, omitted together with Heading when both are empty
	Heading   string // Kode/Kodetekst/Overskrift
}

// XMLBid describes a generated NS 3459 price document
type XMLBid struct {
	Namespace string
	Sender    string
	Chapters  [][2]string // code, name pairs for the chapter plan
	Posts     []XMLPost
}

// Bytes renders the document
func (b XMLBid) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	if b.Namespace != "" {
		fmt.Fprintf(&buf, `<NS3459 xmlns="%s">`, esc(b.Namespace))
	} else {
		buf.WriteString(`<NS3459>`)
	}
	buf.WriteString(`<Pristilbud>`)
	if b.Sender != "" {
		fmt.Fprintf(&buf, `<Generelt><Avsender><Firma><Navn>%s</Navn></Firma></Avsender></Generelt>`, esc(b.Sender))
	}
	buf.WriteString(`<ProsjektNS>`)
	if len(b.Chapters) > 0 {
		buf.WriteString(`<Postnrplan>`)
		for _, ch := range b.Chapters {
			fmt.Fprintf(&buf, `<PostnrdelKode><Type>Type1</Type><Kode>%s</Kode><Navn>%s</Navn></PostnrdelKode>`,
				esc(ch[0]), esc(ch[1]))
		}
		buf.WriteString(`</Postnrplan>`)
	}
	for _, p := range b.Posts {
		buf.WriteString(`<Post>`)
		fmt.Fprintf(&buf, `<Postnr>%s</Postnr>`, esc(p.ItemCode))
		if p.Chapter != "" {
			fmt.Fprintf(&buf, `<Postnrdeler><Postnrdel><Type>Type1</Type><Kode>%s</Kode></Postnrdel></Postnrdeler>`, esc(p.Chapter))
		}
		if p.Code != "" || p.Heading != "" {
			fmt.Fprintf(&buf, `<Kode><ID>%s</ID><Kodetekst><Overskrift>%s</Overskrift></Kodetekst></Kode>`,
				esc(p.Code), esc(p.Heading))
		}
		if p.Text != "" {
			fmt.Fprintf(&buf, `<Tekst><Uformatert>%s</Uformatert></Tekst>`, esc(p.Text))
		}
		opt := ""
		if p.Option {
			opt = ` Opsjon="true"`
		}
		fmt.Fprintf(&buf, `<Prisinfo%s><Enhet>%s</Enhet><Mengde>%s</Mengde><Enhetspris>%s</Enhetspris><Sum>%s</Sum></Prisinfo>`,
			opt, esc(p.Unit), num(p.Quantity), num(p.UnitPrice), num(p.Total))
		buf.WriteString(`</Post>`)
	}
	buf.WriteString(`</ProsjektNS></Pristilbud></NS3459>`)
	return buf.Bytes()
}

// CSVBid renders a semicolon separated bid with the given header
func CSVBid(header []string, rows ...[]string) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(header, ";"))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ";"))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// SimpleCSVBid renders a bid with postnr, beskrivelse, enhet, mengde and
// pris columns. Each row is item code, quantity, unit price.
func SimpleCSVBid(rows ...[3]string) []byte {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r[0], "Post " + r[0], "stk", r[1], r[2]}
	}
	return CSVBid([]string{"postnr", "beskrivelse", "enhet", "mengde", "pris"}, out...)
}

func esc(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
