package sheets

import (
	"context"
	"fmt"
)

// MetaSheet is the sheet that enumerates the product category tabs.
const MetaSheet = "Categories"

// CategoryMeta is one (id, name) pair from the category meta sheet. The id
// doubles as the name of the sheet holding that category's products.
type CategoryMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryHeader holds the title and description shown for the aggregate
// "all products" listing, read from the meta sheet's first data row.
type CategoryHeader struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategoryMeta lists the category ids and display names from the meta
// sheet. The pairs occupy the first two columns after the metadata offset.
func (c *Client) CategoryMeta(ctx context.Context, spreadsheetID string) ([]CategoryMeta, error) {
	raw, err := c.FetchRaw(ctx, MetaSheet, spreadsheetID)
	if err != nil {
		return nil, err
	}

	rows := FilterHeader(Clean(raw))
	meta := make([]CategoryMeta, 0, len(rows))
	for _, row := range rows {
		id := CellString(row.At(0))
		name := CellString(row.At(1))
		if id == "" || name == "" {
			continue
		}
		meta = append(meta, CategoryMeta{ID: id, Name: name})
	}
	return meta, nil
}

// CategoryHeaderData reads the aggregate listing title and description from
// the meta sheet. The name marker for this sheet sits on the second row of
// the cleaned grid; a mismatch yields nil rather than an error.
func (c *Client) CategoryHeaderData(ctx context.Context, spreadsheetID string) (*CategoryHeader, error) {
	raw, err := c.FetchRaw(ctx, MetaSheet, spreadsheetID)
	if err != nil {
		return nil, err
	}

	cleaned := Clean(raw)
	if len(cleaned) < 2 {
		return nil, fmt.Errorf("sheet %q doesn't have enough data", MetaSheet)
	}

	second := cleaned[1]
	width := len(cleaned[0])
	if width < 2 || CellString(second.At(width-2)) != MetaSheet {
		c.logger.Warn().
			Str("sheet", MetaSheet).
			Str("found", CellString(second.At(width-2))).
			Msg("Meta sheet name marker mismatch")
		return nil, nil
	}

	rows := FilterHeader(cleaned)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows found in sheet %q", MetaSheet)
	}

	first := rows[0]
	return &CategoryHeader{
		Title:       CellString(first.At(len(first) - 4)),
		Description: CellString(first.At(len(first) - 3)),
	}, nil
}
