package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// encodeDocument serializes a JSONB column value.
func encodeDocument(value any) (string, error) {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(raw), nil
}

func decodeDocument(raw string, out any) error {
	if raw == "" {
		raw = "null"
	}
	if err := sonic.UnmarshalString(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func nullTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}

func toNullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC(), Valid: true}
}
