// Package extract turns HTML and PDF documents into plain text for the
// tokenizer.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

const (
	KindText = "text"
	KindHTML = "html"
	KindPDF  = "pdf"
)

// NormalizeKind maps a case-insensitive input type to its canonical name.
// An empty name means KindText.
func NormalizeKind(raw string) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(raw))
	switch kind {
	case "", KindText, "txt", "plain":
		return KindText, nil
	case KindHTML, "htm":
		return KindHTML, nil
	case KindPDF:
		return KindPDF, nil
	default:
		return "", fmt.Errorf("invalid input type %q (expected %s|%s|%s)", raw, KindText, KindHTML, KindPDF)
	}
}

// Text returns the plain text of data interpreted as kind. KindText
// returns data unchanged.
func Text(data []byte, kind string) (string, error) {
	k, err := NormalizeKind(kind)
	if err != nil {
		return "", err
	}
	switch k {
	case KindHTML:
		return HTML(data)
	case KindPDF:
		return PDF(data)
	default:
		return string(data), nil
	}
}

// blockSelector lists elements whose content ends a line of text.
const blockSelector = "address,article,aside,blockquote,br,dd,div,dl,dt,figcaption," +
	"footer,h1,h2,h3,h4,h5,h6,header,hr,li,main,nav,ol,p,pre,section,table,td,th,title,tr,ul"

// HTML returns the visible text of an HTML document, one line per
// block element. Script, style and noscript content is dropped.
func HTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script,style,noscript,template").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return collapseLines(doc.Text()), nil
}

// PDF returns the plain text of every page, pages separated by a blank
// line.
func PDF(data []byte) (text string, err error) {
	// The pdf package panics on malformed objects and content streams.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("read pdf: %v", p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}

		if c := collapseLines(content); c != "" {
			pages = append(pages, c)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// collapseLines squeezes horizontal whitespace to single spaces and drops
// blank lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if l := strings.Join(strings.Fields(line), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
