package model

import (
	"strings"

	"github.com/kalyuk/swagdeco/swagger"
)

// ColumnType is a storage column type token such as "int4" or "jsonb".
type ColumnType string

// Column type tokens understood by TypeOf. Any other token maps to a string.
const (
	Int2      ColumnType = "int2"
	Int4      ColumnType = "int4"
	Int8      ColumnType = "int8"
	Int32     ColumnType = "int32"
	Int64     ColumnType = "int64"
	Integer   ColumnType = "integer"
	Float     ColumnType = "float"
	SmallInt  ColumnType = "smallint"
	BigInt    ColumnType = "bigint"
	Decimal   ColumnType = "decimal"
	Numeric   ColumnType = "numeric"
	Double    ColumnType = "double"
	Date      ColumnType = "date"
	DateTime  ColumnType = "datetime"
	Timestamp ColumnType = "timestamp"
	JSON      ColumnType = "json"
	JSONB     ColumnType = "jsonb"
	Enum      ColumnType = "enum"
	Varchar   ColumnType = "varchar"
)

// ColumnOptions describes a single column as reported by a ColumnSource.
type ColumnOptions struct {
	Type    ColumnType
	IsArray bool
	Enum    []string
}

// TypeOf maps column options to a schema fragment:
//
//	int*, integer, float, smallint, bigint, decimal, numeric, double -> number
//	date      -> string, format date
//	datetime  -> string, format date-time
//	timestamp -> number, format date-time
//	json(b)   -> array when IsArray, object otherwise
//	enum      -> string with the allowed values
//	other     -> string
//
// Token matching is case-insensitive.
func TypeOf(opts ColumnOptions) *swagger.Schema {
	switch ColumnType(strings.ToLower(string(opts.Type))) {
	case Int2, Int4, Int8, Int32, Int64, Integer, Float, SmallInt, BigInt, Decimal, Numeric, Double:
		return &swagger.Schema{Type: "number"}
	case Date:
		return &swagger.Schema{Type: "string", Format: "date"}
	case DateTime:
		return &swagger.Schema{Type: "string", Format: "date-time"}
	case Timestamp:
		return &swagger.Schema{Type: "number", Format: "date-time"}
	case JSON, JSONB:
		if opts.IsArray {
			return &swagger.Schema{Type: "array"}
		}
		return &swagger.Schema{Type: "object"}
	case Enum:
		s := &swagger.Schema{Type: "string"}
		if opts.Enum != nil {
			s.Enum = make([]any, len(opts.Enum))
			for i, v := range opts.Enum {
				s.Enum[i] = v
			}
		}
		return s
	default:
		return &swagger.Schema{Type: "string"}
	}
}
