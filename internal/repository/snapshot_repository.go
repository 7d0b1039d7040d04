package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/noah-isme/technician-sla-api/internal/models"
	appErrors "github.com/noah-isme/technician-sla-api/pkg/errors"
)

// SnapshotRepository reads the static CSV snapshot used when the live record
// source is unreachable.
type SnapshotRepository struct {
	path string
}

// NewSnapshotRepository instantiates the repository.
func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// FetchAll parses the snapshot file into raw string maps. The first row is
// treated as the header; short rows are padded, long rows truncated.
func (r *SnapshotRepository) FetchAll() ([]models.RawRecord, error) {
	if r == nil || r.path == "" {
		return nil, appErrors.ErrSnapshotUnavailable
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotUnavailable.Code, appErrors.ErrSnapshotUnavailable.Status, "open snapshot")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotUnavailable.Code, appErrors.ErrSnapshotUnavailable.Status, "parse snapshot")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("snapshot has no header row")
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(models.RawRecord, len(header))
		for i, column := range header {
			if column == "" || i >= len(row) {
				continue
			}
			if value := strings.TrimSpace(row[i]); value != "" {
				record[column] = value
			}
		}
		records = append(records, record)
	}
	return records, nil
}
