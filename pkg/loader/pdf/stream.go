package pdf

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/OFFIS-RIT/coauthor/pkg/logger"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// streamPages reads text straight from the page content streams. It only
// understands literal strings shown with Tj, TJ, ' and ", which covers most
// text-based papers but not fonts with custom encodings.
type streamPages struct {
	ctx *model.Context
}

func (p *streamPages) PageCount() int {
	return p.ctx.PageCount
}

func (p *streamPages) PageText(ctx context.Context, pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(p.ctx, pageNr)
	if err != nil {
		logger.Debug("[PDF] No content stream", "page", pageNr, "err", err)
		return "", nil
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return extractTextFromStream(data), nil
}

func (p *streamPages) Close() error {
	return nil
}

var pdfLiteralRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// extractTextFromStream collects the literal strings of text-showing
// operators. Line moves become spaces, explicit next-line operators become
// newlines.
func extractTextFromStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			writeLiterals(&sb, line)
		case bytes.HasSuffix(line, []byte("'")), bytes.HasSuffix(line, []byte(`"`)):
			sb.WriteByte('\n')
			writeLiterals(&sb, line)
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")), bytes.HasSuffix(line, []byte("Tm")):
			sb.WriteByte(' ')
		}
	}

	return normalizeSpaces(sb.String())
}

func writeLiterals(sb *strings.Builder, line []byte) {
	for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
		sb.WriteString(decodePDFLiteral(m[1]))
	}
}

// decodePDFLiteral resolves the escape sequences of a PDF literal string.
func decodePDFLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
		case '0', '1', '2', '3', '4', '5', '6', '7':
			val := 0
			j := 0
			for ; j < 3 && i+j < len(raw) && raw[i+j] >= '0' && raw[i+j] <= '7'; j++ {
				val = val*8 + int(raw[i+j]-'0')
			}
			i += j - 1
			sb.WriteByte(byte(val))
		default:
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// normalizeSpaces collapses runs of horizontal whitespace, keeps single
// newlines and drops non-printable runes.
func normalizeSpaces(text string) string {
	var sb strings.Builder
	pendingSpace := false
	pendingNewline := false
	for _, r := range text {
		switch {
		case r == '\n':
			pendingNewline = true
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsPrint(r):
			if sb.Len() > 0 {
				if pendingNewline {
					sb.WriteByte('\n')
				} else if pendingSpace {
					sb.WriteByte(' ')
				}
			}
			pendingSpace, pendingNewline = false, false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
