package extract

import (
	"encoding/xml"
	"io"
	"strings"
)

// stripDocxXML reduces a WordprocessingML body to plain text. Paragraphs and
// explicit breaks become newlines, tabs become \t.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		buf     strings.Builder
		inText  int
		inProps int
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(buf.String())
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText++
			case "pPr", "rPr":
				inProps++
			case "tab":
				if inProps == 0 {
					buf.WriteString("\t")
				}
			case "br", "cr":
				buf.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if inText > 0 {
					inText--
				}
			case "pPr", "rPr":
				if inProps > 0 {
					inProps--
				}
			case "p":
				buf.WriteString("\n")
			}
		case xml.CharData:
			if inText > 0 {
				buf.Write(t)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
