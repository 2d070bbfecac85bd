// Package docx reads Word documents: body paragraphs first, then every
// top-level table.
package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/table"
)

// Reader implements extract.Reader for DOCX.
type Reader struct {
	logger *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

func (r *Reader) Format() constants.Format { return constants.DOCX }

// Read returns the non-blank paragraphs joined by newlines, followed by
// "\n\n[TABLE i]\n" and one " | " separated line per row for each table.
func (r *Reader) Read(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty DOCX content")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	body, err := parseBody(strings.NewReader(doc.Editable().GetContent()))
	if err != nil {
		return "", common.WrapError(err, "parse document.xml")
	}

	paras := make([]string, 0, len(body.paragraphs))
	for _, p := range body.paragraphs {
		if strings.TrimSpace(p) != "" {
			paras = append(paras, p)
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(paras, "\n"))
	for i, t := range body.tables {
		fmt.Fprintf(&sb, "\n\n[TABLE %d]\n", i+1)
		sb.WriteString(table.Serialize(table.TrimCells(t)))
	}

	r.logger.Debug("docx.read", "paragraphs", len(paras), "tables", len(body.tables))
	return sb.String(), nil
}

type body struct {
	paragraphs []string
	tables     []table.Table
}

// parseBody walks WordprocessingML tokens. Only direct children of w:body
// count: nested tables and text boxes are not surfaced on their own.
func parseBody(r io.Reader) (*body, error) {
	dec := xml.NewDecoder(r)
	out := &body{}

	var (
		stack []string // local names of open elements

		para     strings.Builder
		inPara   bool
		skipText int // depth inside text boxes or nested tables

		tbl       table.Table
		tblDepth  int // stack depth of the top-level w:tbl, 0 when outside
		row       []string
		cellText  []string
		cellSpan  int
		cellVM    string
		vMergeTop map[int]string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			stack = append(stack, name)
			depth := len(stack)

			switch {
			case skipText > 0:
				skipText++
			case name == "txbxContent":
				skipText = 1
			case name == "tbl" && tblDepth == 0 && parentIs(stack, "body"):
				tblDepth = depth
				tbl = nil
				vMergeTop = map[int]string{}
			case name == "tbl" && tblDepth > 0:
				skipText = 1
			case name == "tr" && tblDepth > 0:
				row = nil
			case name == "tc" && tblDepth > 0:
				cellText, cellSpan, cellVM = nil, 1, ""
			case name == "gridSpan" && tblDepth > 0:
				if n, err := strconv.Atoi(attr(t, "val")); err == nil && n > 1 {
					cellSpan = n
				}
			case name == "vMerge" && tblDepth > 0:
				cellVM = attr(t, "val")
				if cellVM == "" {
					cellVM = "continue"
				}
			case name == "p":
				inPara = true
				para.Reset()
			// w:tab also defines tab stops under w:pPr/w:tabs
			case name == "tab" && inPara && parentIs(stack, "r"):
				para.WriteByte('\t')
			case (name == "br" || name == "cr") && inPara && parentIs(stack, "r"):
				para.WriteByte('\n')
			}

		case xml.CharData:
			if inPara && skipText == 0 && len(stack) > 0 && stack[len(stack)-1] == "t" {
				para.Write(t)
			}

		case xml.EndElement:
			name := t.Name.Local
			depth := len(stack)

			switch {
			case skipText > 0:
				skipText--
			case name == "p" && inPara:
				inPara = false
				switch {
				case parentIs(stack, "body"):
					out.paragraphs = append(out.paragraphs, para.String())
				case tblDepth > 0 && parentIs(stack, "tc"):
					cellText = append(cellText, para.String())
				}
			case name == "tc" && tblDepth > 0:
				text := strings.Join(cellText, "\n")
				col := len(row)
				if cellVM == "continue" {
					text = vMergeTop[col]
				} else {
					vMergeTop[col] = text
				}
				for i := 0; i < cellSpan; i++ {
					row = append(row, text)
				}
			case name == "tr" && tblDepth > 0:
				tbl = append(tbl, row)
			case name == "tbl" && depth == tblDepth:
				out.tables = append(out.tables, tbl)
				tblDepth = 0
			}
			stack = stack[:depth-1]
		}
	}
	return out, nil
}

// parentIs reports whether the element on top of stack has the given parent.
func parentIs(stack []string, parent string) bool {
	return len(stack) >= 2 && stack[len(stack)-2] == parent
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
