package user

import "sort"

// Changes tracks the columns of a row modified since it was last persisted.
// The store marks columns as it assigns fields and clears them once the row is
// written.
type Changes struct {
	columns map[string]struct{}
}

func (c *Changes) MarkDirty(column string) {
	if c.columns == nil {
		c.columns = make(map[string]struct{})
	}
	c.columns[column] = struct{}{}
}

func (c *Changes) ClearDirty() {
	c.columns = nil
}

func (c Changes) NeedsUpdate() bool {
	return len(c.columns) > 0
}

func (c Changes) IsDirty(column string) bool {
	_, ok := c.columns[column]
	return ok
}

func (c Changes) Columns() []string {
	cols := make([]string, 0, len(c.columns))
	for col := range c.columns {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// setIfDifferent assigns value to *field and marks column dirty only when the
// value actually changes.
func setIfDifferent[T comparable](c *Changes, column string, field *T, value T) {
	if *field == value {
		return
	}
	*field = value
	c.MarkDirty(column)
}

// setPtrIfDifferent is setIfDifferent for nullable columns, comparing the
// pointed-to values.
func setPtrIfDifferent[T comparable](c *Changes, column string, field **T, value *T) {
	switch {
	case *field == nil && value == nil:
		return
	case *field != nil && value != nil && **field == *value:
		return
	}
	*field = value
	c.MarkDirty(column)
}
