package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/extract"
)

func TestResultsXLSX(t *testing.T) {
	results := []extract.Result{
		{Source: "guide.pdf", Format: constants.PDF, Text: "Tuyển sinh", Cached: true, Duration: 1500 * time.Millisecond},
		{Source: "broken.docx", Format: constants.DOCX, Err: common.NewReadError("broken.docx", "DOCX", errors.New("zip: not a valid zip file"))},
		{Source: "notes.txt", Err: common.NewUnsupportedError("notes.txt")},
	}

	data, err := ResultsXLSX(results, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, reportHeaders, rows[0])
	assert.Equal(t, []string{"guide.pdf", "PDF", "ok", "10", "TRUE", "1500"}, rows[1])
	assert.Equal(t, "UNREADABLE", rows[2][2])
	assert.Equal(t, "Error reading DOCX file: zip: not a valid zip file", rows[2][6])
	assert.Equal(t, []string{"notes.txt", "-", "UNSUPPORTED"}, rows[3][:3])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "ệệ…", truncate("ệệệệ", 3))
}
