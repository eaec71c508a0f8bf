package usecase

import (
	"bufio"
	"io"
	"time"

	"github.com/eslsoft/wordpicker/internal/entity"
)

const exportFilePrefix = "my_collected_words_"

// ExportFilename names the plain-text export for the UTC date of now.
func ExportFilename(now time.Time) string {
	return exportFilePrefix + now.UTC().Format("2006-01-02") + ".txt"
}

// WriteLines writes one record text per line without a trailing newline and
// returns how many records were written.
func WriteLines(w io.Writer, records []entity.WordRecord) (int, error) {
	bw := bufio.NewWriter(w)
	for i, rec := range records {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return i, err
			}
		}
		if _, err := bw.WriteString(rec.Text); err != nil {
			return i, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(records), nil
}
