package repository

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/technician-sla-api/internal/models"
	appErrors "github.com/noah-isme/technician-sla-api/pkg/errors"
)

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RecordRepository reads the technician dataset from the source table.
// Rows are scanned column-by-column into maps so that added or removed
// columns never break the fetch.
type RecordRepository struct {
	db    *sqlx.DB
	table string
}

// NewRecordRepository instantiates the repository.
func NewRecordRepository(db *sqlx.DB, table string) *RecordRepository {
	if !tablePattern.MatchString(table) {
		table = "training_sla"
	}
	return &RecordRepository{db: db, table: table}
}

// FetchAll returns every row of the source table as raw string maps.
func (r *RecordRepository) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	if r == nil || r.db == nil {
		return nil, appErrors.ErrSourceUnavailable
	}

	rows, err := r.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", r.table))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "query source table")
	}
	defer rows.Close()

	var records []models.RawRecord
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan source row: %w", err)
		}
		records = append(records, stringifyRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "iterate source rows")
	}
	return records, nil
}

func stringifyRow(row map[string]interface{}) models.RawRecord {
	record := make(models.RawRecord, len(row))
	for column, value := range row {
		if value == nil {
			continue
		}
		switch typed := value.(type) {
		case []byte:
			record[column] = string(typed)
		case string:
			record[column] = typed
		case time.Time:
			record[column] = typed.UTC().Format(time.RFC3339)
		case int64:
			record[column] = strconv.FormatInt(typed, 10)
		case float64:
			record[column] = strconv.FormatFloat(typed, 'f', -1, 64)
		case bool:
			record[column] = strconv.FormatBool(typed)
		default:
			record[column] = fmt.Sprintf("%v", typed)
		}
	}
	return record
}
