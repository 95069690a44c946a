package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// pptxSlide mirrors just enough of DrawingML to pull out shape text and
// tell the title placeholder apart from body text. No Go library in the
// reference corpus handles PPTX, so this reads the OOXML part directly —
// a slide is a zip entry containing plain XML.
type pptxSlide struct {
	XMLName xml.Name     `xml:"sld"`
	CSld    pptxCSld     `xml:"cSld"`
}

type pptxCSld struct {
	SpTree pptxSpTree `xml:"spTree"`
}

type pptxSpTree struct {
	Shapes []pptxShape `xml:"sp"`
}

type pptxShape struct {
	NvSpPr pptxNvSpPr `xml:"nvSpPr"`
	TxBody pptxTxBody `xml:"txBody"`
}

type pptxNvSpPr struct {
	NvPr pptxNvPr `xml:"nvPr"`
}

type pptxNvPr struct {
	Ph pptxPlaceholder `xml:"ph"`
}

type pptxPlaceholder struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

type pptxTxBody struct {
	Paragraphs []pptxParagraph `xml:"p"`
}

type pptxParagraph struct {
	Runs []pptxRun `xml:"r"`
}

type pptxRun struct {
	Text string `xml:"t"`
}

var slideFileRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX emits one Page per slide. The slide's title placeholder (type
// "title" or the first placeholder, idx "0") becomes the page Heading when
// present.
func extractPPTX(filePath string) ([]Page, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening pptx %s: %w", filePath, err)
	}
	defer zr.Close()

	type slideFile struct {
		num int
		f   *zip.File
	}
	var slideFiles []slideFile
	for _, f := range zr.File {
		m := slideFileRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		slideFiles = append(slideFiles, slideFile{num: num, f: f})
	}
	sort.Slice(slideFiles, func(i, j int) bool { return slideFiles[i].num < slideFiles[j].num })

	var pages []Page
	for _, sf := range slideFiles {
		rc, err := sf.f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		var slide pptxSlide
		if err := xml.Unmarshal(data, &slide); err != nil {
			continue
		}

		var texts []string
		var heading string
		for _, shape := range slide.CSld.SpTree.Shapes {
			var shapeText []string
			for _, p := range shape.TxBody.Paragraphs {
				for _, r := range p.Runs {
					if t := strings.TrimSpace(r.Text); t != "" {
						shapeText = append(shapeText, t)
					}
				}
			}
			if len(shapeText) == 0 {
				continue
			}
			ph := shape.NvSpPr.NvPr.Ph
			if ph.Type == "title" || ph.Idx == "0" {
				heading = strings.TrimSpace(strings.Join(shapeText, " "))
			}
			texts = append(texts, shapeText...)
		}

		if len(texts) == 0 {
			continue
		}
		pages = append(pages, Page{Text: strings.Join(texts, "\n"), Number: sf.num, Heading: heading})
	}

	return pages, nil
}
