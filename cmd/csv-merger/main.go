package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ryabkov82/csv-merger/internal/config"
	"github.com/ryabkov82/csv-merger/internal/merger"
)

type FileOutput struct {
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

type DirOutput struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Found bool   `json:"found"`
	Files int    `json:"files"`
	Error string `json:"error,omitempty"`
}

type Output struct {
	Success     bool         `json:"success"`
	OutputFile  string       `json:"output_file,omitempty"`
	Error       string       `json:"error,omitempty"`
	Duration    string       `json:"duration"`
	RowCount    int64        `json:"row_count,omitempty"`
	Directories []DirOutput  `json:"directories,omitempty"`
	Files       []FileOutput `json:"files,omitempty"`
}

func main() {
	// Ошибки логируются и попадают в JSON, код выхода всегда 0
	emitJSON(os.Stdout, run(os.Args[1:], os.Stderr))
}

func run(args []string, logOut io.Writer) Output {
	start := time.Now()

	cfg, err := config.Parse(args)
	if err != nil {
		return Output{
			Success:  false,
			Error:    fmt.Sprintf("configuration error: %v", err),
			Duration: time.Since(start).String(),
		}
	}

	logger := newLogger(cfg.LogFormat, logOut)

	m := merger.NewStreamMerger(logger)
	res, err := m.MergeFiles(cfg)

	out := buildOutput(res)
	out.Duration = time.Since(start).String()
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Success = true
	return out
}

func newLogger(format string, w io.Writer) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func buildOutput(res *merger.Result) Output {
	var out Output
	if res == nil {
		return out
	}
	out.OutputFile = res.OutputFile
	out.RowCount = res.RowCount
	for _, d := range res.Directories {
		do := DirOutput{Name: d.Name, Path: d.Path, Found: d.Found, Files: len(d.Files)}
		if d.Err != nil {
			do.Error = d.Err.Error()
		}
		out.Directories = append(out.Directories, do)
	}
	for _, f := range res.Files {
		fo := FileOutput{Path: f.Path, Rows: f.Rows}
		if f.Err != nil {
			fo.Error = f.Err.Error()
		}
		out.Files = append(out.Files, fo)
	}
	return out
}

func emitJSON(w io.Writer, out Output) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ") // для красивого вывода (опционально)
	if err := enc.Encode(out); err != nil {
		log.Fatalf("JSON output error: %v", err)
	}
}
