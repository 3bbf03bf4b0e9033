package merger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// naValues - строки, которые считаются пустым значением
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// ReadCSV читает CSV файл с заголовком в таблицу с выводом типов по колонкам.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return parseCSV(data)
}

func parseCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, errors.New("content is not valid UTF-8")
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // длину строк проверяем сами
	// логгеры симуляции пишут поля без экранирования, кавычки внутри поля допустимы
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}
	columns := normalizeHeader(header)

	var raw [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > len(columns) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(columns), len(rec))
		}
		raw = append(raw, rec)
	}

	t := NewTable(columns...)
	t.Rows = make([][]any, len(raw))
	for i := range raw {
		t.Rows[i] = make([]any, len(columns))
	}

	col := make([]string, len(raw))
	for c := range columns {
		for i, rec := range raw {
			if c < len(rec) {
				col[i] = rec[c]
			} else {
				col[i] = ""
			}
		}
		for i, v := range inferColumn(col) {
			t.Rows[i][c] = v
		}
	}

	return t, nil
}

// normalizeHeader подставляет имена для пустых заголовков и нумерует повторы.
// Номер пропускается, если такое имя уже есть в исходном заголовке.
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
		present[h] = true
	}

	out := make([]string, len(names))
	counts := make(map[string]int, len(names))
	for i, h := range names {
		name := h
		cur := counts[h]
		for cur > 0 {
			counts[h] = cur + 1
			name = fmt.Sprintf("%s.%d", h, cur)
			if present[name] {
				cur++
			} else {
				cur = counts[name]
			}
		}
		out[i] = name
		counts[name] = cur + 1
	}
	return out
}

type cellKind int

const (
	kindEmpty cellKind = iota
	kindInt
	kindFloat
	kindBool
	kindString
)

// inferColumn определяет общий тип колонки и переводит значения в него
func inferColumn(vals []string) []any {
	kind := kindEmpty
	for _, v := range vals {
		if isNA(v) {
			continue
		}
		kind = widen(kind, classify(v))
		if kind == kindString {
			break
		}
	}

	out := make([]any, len(vals))
	for i, v := range vals {
		if isNA(v) {
			continue
		}
		switch kind {
		case kindInt:
			n, _ := strconv.ParseInt(v, 10, 64)
			out[i] = n
		case kindFloat:
			n, _ := parseFloat(v)
			out[i] = n
		case kindBool:
			out[i], _ = parseBool(v)
		default:
			out[i] = v
		}
	}
	return out
}

func isNA(v string) bool {
	_, ok := naValues[v]
	return ok
}

func classify(v string) cellKind {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return kindInt
	}
	if _, ok := parseFloat(v); ok {
		return kindFloat
	}
	if _, ok := parseBool(v); ok {
		return kindBool
	}
	return kindString
}

func widen(cur, next cellKind) cellKind {
	switch {
	case cur == kindEmpty:
		return next
	case cur == next:
		return cur
	case (cur == kindInt && next == kindFloat) || (cur == kindFloat && next == kindInt):
		return kindFloat
	}
	return kindString
}

func parseFloat(v string) (float64, bool) {
	// шестнадцатеричные и прочие формы Go не считаем числами
	if strings.ContainsAny(v, "xX_pP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}
