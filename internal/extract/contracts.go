package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/common"
)

// Reader turns the raw bytes of one document format into normalized text.
// Readers are stateless and safe to call concurrently.
type Reader interface {
	Format() constants.Format
	Read(ctx context.Context, data []byte) (string, error)
}

// UploadedFile is a caller-supplied document. The core never mutates it.
type UploadedFile struct {
	Name     string
	MIMEType string
	Data     []byte
	Size     int64
}

// Signature identifies an upload for change detection.
type Signature struct {
	Name        string
	Size        int64
	Fingerprint string
}

// Fingerprint is the hex SHA-256 of the file content.
func (f UploadedFile) Fingerprint() string {
	return Fingerprint(f.Data)
}

// Signature returns the (name, size, fingerprint) identity of the upload.
func (f UploadedFile) Signature() Signature {
	return Signature{Name: f.Name, Size: f.Size, Fingerprint: f.Fingerprint()}
}

// Fingerprint is the hex SHA-256 of data, used as the cache key.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Result is the typed outcome of extracting one file: either Text or Err.
type Result struct {
	Source   string
	Format   constants.Format
	Text     string
	Err      *common.ExtractError
	Cached   bool
	Duration time.Duration
}

// OK reports whether extraction succeeded.
func (r Result) OK() bool { return r.Err == nil }

// ContextText is what the aggregator folds into the unified context: the
// extracted text, or the human-readable error message.
func (r Result) ContextText() string {
	if r.Err != nil {
		return r.Err.Message
	}
	return r.Text
}
