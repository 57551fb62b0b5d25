package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
)

// WriteAttemptsCSV renders the attempt log as a spreadsheet-friendly CSV with
// one row per attempt, in log order.
func WriteAttemptsCSV(w io.Writer, records []domain.AttemptRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Number", "Timestamp", "Status"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Number,
			rec.Timestamp.Format(time.RFC3339),
			string(rec.Status),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}
