package docmarkdown

import (
	"strings"

	"google.golang.org/api/docs/v1"
)

// FromDocument renders the document body as Markdown. Headings become "#"
// prefixes, bulleted paragraphs "- " (indented two spaces per nesting level),
// and text runs are wrapped bold, then italic, then link. Output is normalized:
// italic is always written "_text_" and bullets always "- ", so "*text*" or
// "* "/"+ " bullets accepted by Parse come back in that form. Tables and other
// non-paragraph content are skipped.
func FromDocument(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}

	var lines []string
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		lines = append(lines, paragraphMarkdown(element.Paragraph))
	}

	// The body always ends with an empty paragraph
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// BlocksFromDocument returns the document's paragraphs as blocks
func BlocksFromDocument(doc *docs.Document) []Block {
	if doc == nil || doc.Body == nil {
		return nil
	}
	var blocks []Block
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		blocks = append(blocks, paragraphBlock(element.Paragraph))
	}
	return blocks
}

func paragraphBlock(p *docs.Paragraph) Block {
	var block Block

	if p.ParagraphStyle != nil {
		block.Heading = headingLevel(p.ParagraphStyle.NamedStyleType)
	}
	block.Bullet = p.Bullet != nil

	var spans []Span
	for _, element := range p.Elements {
		if element.TextRun == nil {
			continue
		}
		spans = append(spans, Span{
			Text:  strings.TrimSuffix(element.TextRun.Content, "\n"),
			Style: runStyle(element.TextRun.TextStyle),
		})
	}
	block.Spans = mergeSpans(spans)
	return block
}

func paragraphMarkdown(p *docs.Paragraph) string {
	block := paragraphBlock(p)

	var line strings.Builder
	switch {
	case block.Heading > 0:
		line.WriteString(strings.Repeat("#", block.Heading))
		line.WriteString(" ")
	case block.Bullet:
		if p.Bullet.NestingLevel > 0 {
			line.WriteString(strings.Repeat("  ", int(p.Bullet.NestingLevel)))
		}
		line.WriteString("- ")
	}

	for _, span := range block.Spans {
		line.WriteString(wrapSpan(span))
	}
	return line.String()
}

func headingLevel(namedStyle string) int {
	switch namedStyle {
	case "TITLE", "HEADING_1":
		return 1
	case "SUBTITLE", "HEADING_2":
		return 2
	case "HEADING_3", "HEADING_4", "HEADING_5", "HEADING_6":
		return 3
	default:
		return 0
	}
}

func runStyle(ts *docs.TextStyle) Style {
	if ts == nil {
		return Style{}
	}
	style := Style{Bold: ts.Bold, Italic: ts.Italic}
	if ts.Link != nil {
		style.Link = ts.Link.Url
	}
	return style
}

// wrapSpan applies Markdown markers, keeping surrounding spaces outside them
func wrapSpan(span Span) string {
	if span.Style.Plain() {
		return span.Text
	}

	core := strings.TrimSpace(span.Text)
	if core == "" {
		return span.Text
	}
	lead := span.Text[:strings.Index(span.Text, core)]
	trail := span.Text[len(lead)+len(core):]

	if span.Style.Bold {
		core = "**" + core + "**"
	}
	if span.Style.Italic {
		core = "_" + core + "_"
	}
	if span.Style.Link != "" {
		core = "[" + core + "](" + span.Style.Link + ")"
	}
	return lead + core + trail
}
