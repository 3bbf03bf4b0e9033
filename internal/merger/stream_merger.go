package merger

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ryabkov82/csv-merger/internal/config"
	"github.com/xuri/excelize/v2"
)

// SourceColumn - служебная колонка с именем исходного файла
const SourceColumn = "SourceFile"

type StreamMerger struct {
	BaseMerger
	Cfg          *config.Config
	Logger       *slog.Logger
	HeaderStyle  int
	StreamWriter *excelize.StreamWriter
	Sheet        string
	OutFile      *excelize.File
	RowCounter   int64
}

func NewStreamMerger(logger *slog.Logger) FileMerger {
	sm := &StreamMerger{Logger: logger}
	sm.BaseMerger.Init() // Инициализация базовой части
	return sm
}

func (sm *StreamMerger) MergeFiles(cfg *config.Config) (*Result, error) {
	sm.Cfg = cfg
	res := &Result{}

	if err := CheckCapabilities(); err != nil {
		sm.Logger.Error("missing dependency", "error", err)
		return res, err
	}

	// получаем список входящих файлов
	res.Directories = Discover(sm.Logger, cfg.BaseDir, cfg.Subdirs, cfg.Pattern)
	inputFiles := Files(res.Directories)
	if len(inputFiles) == 0 {
		sm.Logger.Warn("no CSV files found", "base", cfg.BaseDir)
		return res, ErrNoInputFiles
	}

	var table *Table
	table, res.Files = sm.LoadAndMerge(inputFiles)

	outputPath := cfg.OutputPath()
	rows, err := sm.Export(table, outputPath)
	if err != nil {
		sm.Logger.Error("error writing workbook", "path", outputPath, "error", err)
		return res, err
	}

	res.OutputFile = outputPath
	res.RowCount = rows
	sm.Logger.Info(fmt.Sprintf("created %s with %d rows", outputPath, rows), "path", outputPath, "rows", rows)

	return res, nil
}

// LoadAndMerge читает файлы по порядку и объединяет строки. Файл с ошибкой пропускается.
func (sm *StreamMerger) LoadAndMerge(paths []string) (*Table, []FileResult) {
	combined := NewTable()
	results := make([]FileResult, 0, len(paths))

	for _, path := range paths {
		t, err := ReadCSV(path)
		if err != nil {
			sm.Logger.Error("error reading file", "path", path, "error", err)
			results = append(results, FileResult{Path: path, Err: err})
			continue
		}

		t.SetColumn(SourceColumn, filepath.Base(path))
		combined.Append(t)
		results = append(results, FileResult{Path: path, Rows: t.Len()})
	}

	combined.MoveColumnLast(SourceColumn)
	return combined, results
}

// Export записывает таблицу на один лист с заголовком в первой строке.
func (sm *StreamMerger) Export(t *Table, outputPath string) (int64, error) {
	if t.Len()+1 > excelize.TotalRows {
		return 0, fmt.Errorf("%w: %d rows, max %d", ErrSheetLimit, t.Len(), excelize.TotalRows-1)
	}
	if len(t.Columns) > excelize.MaxColumns {
		return 0, fmt.Errorf("%w: %d columns, max %d", ErrSheetLimit, len(t.Columns), excelize.MaxColumns)
	}

	sampleRows := config.DefaultSampleRows
	if sm.Cfg != nil {
		sampleRows = sm.Cfg.SampleRows
	}
	sm.AnalyzeSample(t, sampleRows)

	if err := sm.newOutput(); err != nil {
		return 0, err
	}
	defer sm.closeOutput()

	if err := sm.writeHeader(); err != nil {
		return 0, err
	}

	for r := 0; r < t.Len(); r++ {
		cell, _ := excelize.CoordinatesToCellName(1, int(sm.RowCounter))
		if err := sm.StreamWriter.SetRow(cell, t.Row(r)); err != nil {
			return 0, fmt.Errorf("write row %d: %w", r+1, err)
		}
		sm.RowCounter++
	}

	// Заключительный flush
	if err := sm.StreamWriter.Flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}
	if err := sm.OutFile.SaveAs(outputPath); err != nil {
		return 0, fmt.Errorf("save %s: %w", outputPath, err)
	}

	return int64(t.Len()), nil
}

func (sm *StreamMerger) closeOutput() {
	if sm.OutFile != nil {
		_ = sm.OutFile.Close()
	}
	sm.OutFile, sm.StreamWriter = nil, nil
}

// newOutput создает книгу и StreamWriter; при ошибке книга закрывается.
func (sm *StreamMerger) newOutput() (err error) {
	sm.OutFile = excelize.NewFile()
	defer func() {
		if err != nil {
			sm.closeOutput()
		}
	}()
	sm.Sheet = sm.OutFile.GetSheetName(0)

	sm.HeaderStyle, err = sm.OutFile.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sm.StreamWriter, err = sm.OutFile.NewStreamWriter(sm.Sheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	// ширину колонок задаем до первой строки, иначе StreamWriter вернет ошибку
	for col := range sm.Headers {
		if err := sm.StreamWriter.SetColWidth(col+1, col+1, sm.ColWidth(col)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	sm.RowCounter = 1
	return nil
}

func (sm *StreamMerger) writeHeader() error {
	headerRow := make([]interface{}, len(sm.Headers))
	for i, h := range sm.Headers {
		headerRow[i] = excelize.Cell{
			Value:   h,
			StyleID: sm.HeaderStyle,
		}
	}

	cell := fmt.Sprintf("A%d", sm.RowCounter)
	if err := sm.StreamWriter.SetRow(cell, headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	sm.RowCounter++
	return nil
}
