package docmarkdown

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"google.golang.org/api/docs/v1"
)

// BulletPreset is the glyph set used for bullet lists
const BulletPreset = "BULLET_DISC_CIRCLE_SQUARE"

// linkColor is the blue applied to hyperlinks
var linkColor = &docs.OptionalColor{
	Color: &docs.Color{
		RgbColor: &docs.RgbColor{Blue: 1},
	},
}

// Requests builds the batchUpdate requests that insert blocks at index (1 for
// the start of the body). The text goes in with one insertText, followed by
// paragraph styles, bullets and text styles. Docs indexes count UTF-16 code units.
func Requests(blocks []Block, index int64) []*docs.Request {
	if len(blocks) == 0 {
		return nil
	}

	var text strings.Builder
	for _, block := range blocks {
		text.WriteString(block.Text())
		text.WriteString("\n")
	}
	total := utf16Len(text.String())

	requests := []*docs.Request{
		{
			InsertText: &docs.InsertTextRequest{
				Text:     text.String(),
				Location: &docs.Location{Index: index},
			},
		},
		paragraphStyle(index, index+total, "NORMAL_TEXT"),
	}

	var bulletRanges [][2]int64
	var styleRequests []*docs.Request

	pos := index
	for _, block := range blocks {
		start := pos
		for _, span := range block.Spans {
			length := utf16Len(span.Text)
			if !span.Style.Plain() {
				styleRequests = append(styleRequests, textStyle(pos, pos+length, span.Style))
			}
			pos += length
		}
		pos++ // newline
		end := pos

		if block.Heading > 0 {
			requests = append(requests, paragraphStyle(start, end, fmt.Sprintf("HEADING_%d", block.Heading)))
		}

		if block.Bullet {
			// Consecutive bullet paragraphs form one list
			if n := len(bulletRanges); n > 0 && bulletRanges[n-1][1] == start {
				bulletRanges[n-1][1] = end
			} else {
				bulletRanges = append(bulletRanges, [2]int64{start, end})
			}
		}
	}

	for _, r := range bulletRanges {
		requests = append(requests, &docs.Request{
			CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
				Range:        &docs.Range{StartIndex: r[0], EndIndex: r[1]},
				BulletPreset: BulletPreset,
			},
		})
	}

	return append(requests, styleRequests...)
}

func paragraphStyle(start, end int64, namedStyle string) *docs.Request {
	return &docs.Request{
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          &docs.Range{StartIndex: start, EndIndex: end},
			ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: namedStyle},
			Fields:         "namedStyleType",
		},
	}
}

func textStyle(start, end int64, style Style) *docs.Request {
	ts := &docs.TextStyle{}
	var fields []string

	if style.Bold {
		ts.Bold = true
		fields = append(fields, "bold")
	}
	if style.Italic {
		ts.Italic = true
		fields = append(fields, "italic")
	}
	if style.Link != "" {
		ts.Link = &docs.Link{Url: style.Link}
		ts.Underline = true
		ts.ForegroundColor = linkColor
		fields = append(fields, "link", "underline", "foregroundColor")
	}

	return &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     &docs.Range{StartIndex: start, EndIndex: end},
			TextStyle: ts,
			Fields:    strings.Join(fields, ","),
		},
	}
}

func utf16Len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}
