// Package task interprets declarative operation sets: a caller-supplied
// mapping of operation names to parameter payloads, executed against
// tables in a fixed order regardless of how the caller ordered the keys.
package task

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Set is the parsed form of one operation set. A nil pointer or false
// flag means the operation was not requested. Presence of a key in the
// raw payload activates the operation, whatever its value.
type Set struct {
	// Clean pipeline, in evaluation order.
	RemoveEmptyRows    bool
	RemoveEmptyColumns bool
	RemoveDuplicates   *DedupParams
	ReplaceNulls       *ReplaceNullsParams
	TrimWhitespace     bool
	StandardizeColumns *StandardizeParams
	ChangeTypes        map[string]string
	Formulas           map[string]string
	NormalizeDates     *DateParams

	// Extract pipeline, in evaluation order.
	RowsByIndex     *RangeParams
	RowsByCondition *ConditionParams
	Columns         *ColumnsParams
	Filter          *ConditionParams

	// Inspection and sheet-level requests, read by the engine.
	Metadata      bool
	ExtractSheets *SheetsParams
	CombineSheets *CombineParams
	SplitToSheets *SplitSheetsParams
	RenameSheets  *RenameParams
	ReorderSheets *ReorderParams
	CopySheets    *CopyParams
}

// DedupParams configures remove_duplicates. An empty column list means
// the whole row is the key.
type DedupParams struct {
	Columns []string `mapstructure:"columns"`
}

// ReplaceNullsParams configures replace_nulls. A nil value fills with
// empty text.
type ReplaceNullsParams struct {
	Value any `mapstructure:"value"`
}

// StandardizeParams configures standardize_columns.
type StandardizeParams struct {
	Format string `mapstructure:"format"`
}

// DateParams configures normalize_dates.
type DateParams struct {
	Column string `mapstructure:"column"`
	Format string `mapstructure:"format"`
}

// RangeParams configures extract_rows_by_index. Both bounds are
// required and inclusive; nil marks an omitted bound.
type RangeParams struct {
	Start *int `mapstructure:"start"`
	End   *int `mapstructure:"end"`
}

// ConditionParams configures extract_rows_by_condition and apply_filter.
type ConditionParams struct {
	Condition string `mapstructure:"condition"`
}

// ColumnsParams configures extract_columns.
type ColumnsParams struct {
	Columns []string `mapstructure:"columns"`
}

// SheetsParams configures extract_sheets. Entries are sheet names or
// zero-based indices in decimal.
type SheetsParams struct {
	Sheets []string `mapstructure:"sheets"`
}

// CombineParams configures combine_sheets.
type CombineParams struct {
	TargetSheet string `mapstructure:"target_sheet"`
}

// SplitSheetsParams configures split_to_sheets.
type SplitSheetsParams struct {
	RowsPerSheet *int `mapstructure:"rows_per_sheet"`
}

// RenameParams configures rename_sheets.
type RenameParams struct {
	SheetNames []string `mapstructure:"sheet_names"`
}

// ReorderParams configures reorder_sheets. Entries are sheet names or
// zero-based indices in decimal.
type ReorderParams struct {
	SheetOrder []string `mapstructure:"sheet_order"`
}

// CopyParams configures copy_sheets.
type CopyParams struct {
	SourceSheets []string `mapstructure:"source_sheets"`
}

// ParseSet converts a raw operation mapping into a Set. Unknown keys
// are ignored. Parameterized operations usually carry an object
// payload; a bare scalar is accepted as shorthand for the payload's
// main field, and any other bare value activates the operation with
// defaults.
func ParseSet(raw map[string]any) (*Set, error) {
	set := &Set{}
	for key, payload := range raw {
		var err error
		switch key {
		case "remove_empty_rows":
			set.RemoveEmptyRows = true
		case "remove_empty_columns":
			set.RemoveEmptyColumns = true
		case "trim_whitespace":
			set.TrimWhitespace = true
		case "extract_metadata":
			set.Metadata = true
		case "remove_duplicates":
			set.RemoveDuplicates = &DedupParams{}
			err = decodePayload(key, objectPayload(payload, "columns"), set.RemoveDuplicates)
		case "replace_nulls":
			set.ReplaceNulls = &ReplaceNullsParams{}
			err = decodePayload(key, objectPayload(payload, "value"), set.ReplaceNulls)
		case "standardize_columns":
			set.StandardizeColumns = &StandardizeParams{}
			err = decodePayload(key, objectPayload(payload, "format"), set.StandardizeColumns)
		case "change_data_types":
			set.ChangeTypes = map[string]string{}
			err = decodePayload(key, objectPayload(payload, ""), &set.ChangeTypes)
		case "apply_formulas":
			set.Formulas = map[string]string{}
			err = decodePayload(key, objectPayload(payload, ""), &set.Formulas)
		case "normalize_dates":
			set.NormalizeDates = &DateParams{}
			err = decodePayload(key, objectPayload(payload, "column"), set.NormalizeDates)
		case "extract_rows_by_index":
			set.RowsByIndex = &RangeParams{}
			err = decodePayload(key, objectPayload(payload, ""), set.RowsByIndex)
		case "extract_rows_by_condition":
			set.RowsByCondition = &ConditionParams{}
			err = decodePayload(key, objectPayload(payload, "condition"), set.RowsByCondition)
		case "extract_columns":
			set.Columns = &ColumnsParams{}
			err = decodePayload(key, objectPayload(payload, "columns"), set.Columns)
		case "apply_filter":
			set.Filter = &ConditionParams{}
			err = decodePayload(key, objectPayload(payload, "condition"), set.Filter)
		case "extract_sheets":
			set.ExtractSheets = &SheetsParams{}
			err = decodePayload(key, objectPayload(payload, "sheets"), set.ExtractSheets)
		case "combine_sheets":
			set.CombineSheets = &CombineParams{}
			err = decodePayload(key, objectPayload(payload, "target_sheet"), set.CombineSheets)
		case "split_to_sheets":
			set.SplitToSheets = &SplitSheetsParams{}
			err = decodePayload(key, objectPayload(payload, "rows_per_sheet"), set.SplitToSheets)
		case "rename_sheets":
			set.RenameSheets = &RenameParams{}
			err = decodePayload(key, objectPayload(payload, "sheet_names"), set.RenameSheets)
		case "reorder_sheets":
			set.ReorderSheets = &ReorderParams{}
			err = decodePayload(key, objectPayload(payload, "sheet_order"), set.ReorderSheets)
		case "copy_sheets":
			set.CopySheets = &CopyParams{}
			err = decodePayload(key, objectPayload(payload, "source_sheets"), set.CopySheets)
		}
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

// objectPayload normalizes a payload to the object form decodePayload
// expects. Object payloads pass through, true/null select the defaults,
// and a bare scalar or list becomes {field: payload}. Operations with
// no shorthand field pass the payload through so the decoder reports
// the shape mismatch.
func objectPayload(payload any, field string) any {
	switch payload.(type) {
	case map[string]any:
		return payload
	case bool, nil:
		return map[string]any{}
	default:
		if field == "" {
			return payload
		}
		return map[string]any{field: payload}
	}
}

func decodePayload(name string, payload any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(payload); err != nil {
		return tabular.NewInvalidParameterErrorf("invalid %s parameters: %s", name, err)
	}
	return nil
}
