package constants

import "strings"

// Format is the reader family a file is dispatched to.
type Format string

const (
	PDF         Format = "PDF"
	DOCX        Format = "DOCX"
	XLSX        Format = "XLSX"
	Unsupported Format = ""
)

// Declared MIME types accepted by the aggregator.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AllowedExtensions holds the default allowed file extensions for uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"xlsx": {},
}

var extToMIME = map[string]string{
	"pdf":  MIMEPDF,
	"docx": MIMEDOCX,
	"xlsx": MIMEXLSX,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MIMEForExt returns the declared MIME type for an extension, or
// application/octet-stream when the extension is unknown.
func MIMEForExt(ext string) string {
	if mt, ok := extToMIME[NormalizeExt(ext)]; ok {
		return mt
	}
	return "application/octet-stream"
}

// MapMIMEToFormat resolves a declared MIME type to a reader format.
// Parameters such as "; charset=..." are ignored.
func MapMIMEToFormat(mimeType string) Format {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case MIMEPDF:
		return PDF
	case MIMEDOCX:
		return DOCX
	case MIMEXLSX:
		return XLSX
	default:
		return Unsupported
	}
}
