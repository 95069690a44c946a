package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParaTag   = regexp.MustCompile(`(?s)<w:p\b.*?</w:p>`)
	docxStyleTag  = regexp.MustCompile(`<w:pStyle w:val="(Heading\w*)"`)
	docxRunText   = regexp.MustCompile(`(?s)<w:t[^>]*>(.*?)</w:t>`)
	docxTagStrip  = regexp.MustCompile(`<[^>]+>`)
)

// extractDOCX groups paragraphs into sections delimited by Heading-styled
// paragraphs, mirroring python-docx's style-name grouping: a heading
// paragraph starts a new section and becomes that section's title.
func extractDOCX(filePath string) ([]Page, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening docx %s: %w", filePath, err)
	}
	defer r.Close()

	body := r.Editable().GetContent()

	var pages []Page
	var currentHeading string
	var currentLines []string
	sectionNum := 0

	flush := func() {
		text := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if text == "" {
			return
		}
		sectionNum++
		pages = append(pages, Page{Text: text, Number: sectionNum, Heading: currentHeading})
		currentLines = nil
	}

	for _, para := range docxParaTag.FindAllString(body, -1) {
		text := paragraphText(para)
		if text == "" {
			continue
		}

		if m := docxStyleTag.FindStringSubmatch(para); m != nil {
			flush()
			currentHeading = text
			continue
		}

		currentLines = append(currentLines, text)
	}
	flush()

	return pages, nil
}

func paragraphText(paraXML string) string {
	var b strings.Builder
	for _, m := range docxRunText.FindAllStringSubmatch(paraXML, -1) {
		b.WriteString(docxTagStrip.ReplaceAllString(m[1], ""))
	}
	return strings.TrimSpace(b.String())
}
