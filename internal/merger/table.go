package merger

import (
	"strconv"
)

// Table - таблица в памяти. Значение ячейки: nil, int64, float64, bool или string.
// Строки могут быть короче списка колонок, недостающие ячейки считаются пустыми.
type Table struct {
	Columns []string
	Rows    [][]any
	index   map[string]int
}

func NewTable(columns ...string) *Table {
	t := &Table{index: make(map[string]int)}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Cell возвращает значение ячейки, nil для отсутствующих
func (t *Table) Cell(row, col int) any {
	r := t.Rows[row]
	if col >= len(r) {
		return nil
	}
	return r[col]
}

// Row возвращает строку, дополненную до полного числа колонок
func (t *Table) Row(row int) []any {
	out := make([]any, len(t.Columns))
	copy(out, t.Rows[row])
	return out
}

func (t *Table) addColumn(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	t.Columns = append(t.Columns, name)
	t.index[name] = len(t.Columns) - 1
	return len(t.Columns) - 1
}

// SetColumn заполняет колонку одним значением во всех строках; колонка создается при отсутствии.
func (t *Table) SetColumn(name string, v any) {
	i := t.addColumn(name)
	for r := range t.Rows {
		row := t.Rows[r]
		if len(row) <= i {
			row = append(row, make([]any, i+1-len(row))...)
		}
		row[i] = v
		t.Rows[r] = row
	}
}

// Append добавляет строки other, объединяя множества колонок.
func (t *Table) Append(other *Table) {
	mapping := make([]int, len(other.Columns))
	for i, c := range other.Columns {
		mapping[i] = t.addColumn(c)
	}
	for r := range other.Rows {
		row := make([]any, len(t.Columns))
		for c, v := range other.Rows[r] {
			row[mapping[c]] = v
		}
		t.Rows = append(t.Rows, row)
	}
}

// MoveColumnLast переносит колонку в конец
func (t *Table) MoveColumnLast(name string) {
	from, ok := t.ColumnIndex(name)
	if !ok || from == len(t.Columns)-1 {
		return
	}

	order := make([]int, 0, len(t.Columns))
	for i := range t.Columns {
		if i != from {
			order = append(order, i)
		}
	}
	order = append(order, from)

	cols := make([]string, len(order))
	for i, src := range order {
		cols[i] = t.Columns[src]
		t.index[cols[i]] = i
	}
	t.Columns = cols

	for r := range t.Rows {
		old := t.Rows[r]
		row := make([]any, len(order))
		for i, src := range order {
			if src < len(old) {
				row[i] = old[src]
			}
		}
		t.Rows[r] = row
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}
