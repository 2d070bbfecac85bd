package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapMIMEToFormat(t *testing.T) {
	tests := []struct {
		mime string
		want Format
	}{
		{MIMEPDF, PDF},
		{"Application/PDF", PDF},
		{MIMEDOCX, DOCX},
		{MIMEXLSX + "; charset=binary", XLSX},
		{"text/plain", Unsupported},
		{"", Unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, MapMIMEToFormat(tt.mime))
		})
	}
}

func TestMIMEForExt(t *testing.T) {
	assert.Equal(t, MIMEPDF, MIMEForExt(".PDF"))
	assert.Equal(t, MIMEDOCX, MIMEForExt("docx"))
	assert.Equal(t, "application/octet-stream", MIMEForExt(".txt"))
}
