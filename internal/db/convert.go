package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ToUUID converts a string representation of a UUID into pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// UUIDString converts a pgtype.UUID into its canonical string, empty when
// the value is null.
func UUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// NullableUUID converts an optional string identifier to pgtype.UUID,
// returning the null value for empty input.
func NullableUUID(value string) (pgtype.UUID, error) {
	if value == "" {
		return pgtype.UUID{}, nil
	}
	return ToUUID(value)
}

// NullText wraps an optional string into pgtype.Text.
func NullText(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *v, Valid: true}
}

// TextPtr unwraps pgtype.Text into an optional string.
func TextPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// DecodeDecimal parses a NUMERIC column selected as text. Numeric columns
// are read through ::text casts so the decode to decimal.Decimal happens in
// exactly one place.
func DecodeDecimal(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode numeric %q: %w", value, err)
	}
	return d, nil
}

// DecodeDecimalPtr parses an optional NUMERIC column selected as text.
func DecodeDecimalPtr(value pgtype.Text) (*decimal.Decimal, error) {
	if !value.Valid {
		return nil, nil
	}
	d, err := DecodeDecimal(value.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
