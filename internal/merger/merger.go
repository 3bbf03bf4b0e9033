package merger

import (
	"errors"

	"github.com/mattn/go-runewidth"
	"github.com/ryabkov82/csv-merger/internal/config"
)

var (
	ErrMissingCapability = errors.New("missing capability")
	ErrNoInputFiles      = errors.New("no CSV files found")
	ErrEmptyFile         = errors.New("no columns to parse from file")
	ErrSheetLimit        = errors.New("table exceeds worksheet limits")
)

const (
	minColWidth = 8
	maxColWidth = 80
)

type FileMerger interface {
	MergeFiles(cfg *config.Config) (*Result, error)
}

// Result - итог запуска; заполняется настолько, насколько дошла обработка.
type Result struct {
	OutputFile  string
	RowCount    int64
	Directories []DirResult
	Files       []FileResult
}

// FileResult - результат чтения одного входного файла
type FileResult struct {
	Path string
	Rows int
	Err  error
}

type BaseMerger struct {
	Headers      []string
	MaxColWidths map[int]int
}

// Init инициализирует базовые поля
func (bm *BaseMerger) Init() {
	bm.MaxColWidths = make(map[int]int)
	bm.Headers = make([]string, 0)
}

// AnalyzeSample анализирует пример данных для определения ширины колонок
func (bm *BaseMerger) AnalyzeSample(t *Table, sampleRows int) {
	bm.Headers = append(bm.Headers[:0], t.Columns...)
	bm.MaxColWidths = make(map[int]int, len(t.Columns))
	for i, h := range t.Columns {
		bm.observeWidth(i, h)
	}

	n := t.Len()
	if sampleRows < n {
		n = sampleRows
	}
	for r := 0; r < n; r++ {
		for c := range t.Columns {
			v := t.Cell(r, c)
			if v == nil {
				continue
			}
			bm.observeWidth(c, formatValue(v))
		}
	}
}

func (bm *BaseMerger) observeWidth(col int, s string) {
	w := runewidth.StringWidth(s)
	if w > bm.MaxColWidths[col] {
		bm.MaxColWidths[col] = w
	}
}

// ColWidth возвращает ширину колонки с учетом отступа и ограничений
func (bm *BaseMerger) ColWidth(col int) float64 {
	w := bm.MaxColWidths[col] + 2
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return float64(w)
}
