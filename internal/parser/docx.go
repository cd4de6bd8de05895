package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/navgest/internal/content"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles fragments authored as Word documents. A paragraph
// containing only "---" separates top-level groups, mirroring the section
// breaks authors use in the online editors.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*content.Tree, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	tmp, err := os.CreateTemp("", "navgest-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return ConvertDOCX(doc), nil
}

// ConvertDOCX maps a loaded Word document onto a content tree. Consecutive
// numbered paragraphs form one list.
func ConvertDOCX(doc *docx.Docx) *content.Tree {
	var gb groupBuilder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		inlines := docxInlines(doc, para)
		if len(inlines) == 1 && inlines[0].Kind == content.KindText && strings.TrimSpace(inlines[0].Text) == "---" {
			gb.breakGroup()
			continue
		}
		if len(inlines) == 0 {
			continue
		}

		if level := docxHeadingLevel(para); level > 0 {
			h := content.NewBlock(content.KindHeading, inlines...)
			h.Level = level
			gb.add(h)
			continue
		}
		if para.Properties != nil && para.Properties.NumProperties != nil {
			li := content.NewBlock(content.KindListItem, inlines...)
			if last := gb.last(); last.Is(content.KindList) {
				last.Children = append(last.Children, li)
			} else {
				gb.add(content.NewBlock(content.KindList, li))
			}
			continue
		}
		gb.add(content.NewBlock(content.KindParagraph, inlines...))
	}
	return gb.tree()
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func docxInlines(doc *docx.Docx, para *docx.Paragraph) []*content.Block {
	var out []*content.Block
	for _, child := range para.Children {
		switch o := child.(type) {
		case *docx.Hyperlink:
			label := o.Run.InstrText
			if label == "" {
				label = docxRunText(&o.Run)
			}
			href, err := doc.ReferTarget(o.ID)
			if err != nil {
				// Unresolvable relationship: keep the text, drop the link.
				out = append(out, content.NewText(label))
				continue
			}
			link := content.NewBlock(content.KindLink, content.NewText(label))
			link.Href = href
			out = append(out, link)
		case *docx.Run:
			out = append(out, docxRun(doc, o)...)
		}
	}
	return expandIcons(mergeText(out))
}

func docxRun(doc *docx.Docx, run *docx.Run) []*content.Block {
	var out []*content.Block
	for _, c := range run.Children {
		switch x := c.(type) {
		case *docx.Text:
			out = append(out, content.NewText(x.Text))
		case *docx.Tab:
			out = append(out, content.NewText(" "))
		case *docx.Drawing:
			if img := docxImage(doc, x); img != nil {
				out = append(out, img)
			}
		}
	}
	if run.RunProperties != nil && run.RunProperties.Italic != nil && len(out) > 0 {
		return []*content.Block{content.NewBlock(content.KindEmphasis, expandIcons(mergeText(out))...)}
	}
	return out
}

func docxRunText(run *docx.Run) string {
	var buf strings.Builder
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			buf.WriteString(t.Text)
		}
	}
	return buf.String()
}

func docxImage(doc *docx.Docx, d *docx.Drawing) *content.Block {
	inline := d.Inline
	if inline == nil || inline.Graphic == nil || inline.Graphic.GraphicData == nil {
		return nil
	}
	pic := inline.Graphic.GraphicData.Pic
	if pic == nil || pic.BlipFill == nil {
		return nil
	}
	src, err := doc.ReferTarget(pic.BlipFill.Blip.Embed)
	if err != nil {
		return nil
	}
	img := &content.Block{Kind: content.KindImage, Src: src}
	if inline.DocPr != nil {
		img.Alt = inline.DocPr.Name
	}
	return img
}
