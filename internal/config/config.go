package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputFilename = "CombinedNPCData.xlsx"
	DefaultPattern        = "*.csv"
	DefaultSampleRows     = 1000
)

// DefaultSubdirs - каталоги, в которых симуляция складывает логи NPC.
var DefaultSubdirs = []string{"NPC Worker Data", "NPC Worker Data 2"}

type Config struct {
	BaseDir        string   `yaml:"base_dir"`
	Subdirs        []string `yaml:"subdirs"`
	OutputFilename string   `yaml:"output_filename"`
	Pattern        string   `yaml:"pattern"`
	SampleRows     int      `yaml:"sample_rows"` // строк для расчета ширины колонок
	LogFormat      string   `yaml:"log_format"`
}

// Default возвращает настройки по умолчанию
func Default() *Config {
	return &Config{
		BaseDir:        ".",
		Subdirs:        append([]string(nil), DefaultSubdirs...),
		OutputFilename: DefaultOutputFilename,
		Pattern:        DefaultPattern,
		SampleRows:     DefaultSampleRows,
		LogFormat:      "text",
	}
}

// OutputPath - путь к результирующему файлу внутри базового каталога
func (c *Config) OutputPath() string {
	return filepath.Join(c.BaseDir, c.OutputFilename)
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse собирает настройки: значения по умолчанию, затем YAML файл, затем явно заданные флаги
func Parse(args []string) (*Config, error) {
	var (
		configPath string
		baseDir    string
		subdirs    stringList
		outName    string
		pattern    string
		sampleRows int
		logFormat  string
	)

	fs := flag.NewFlagSet("csv-merger", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "YAML file with base_dir, subdirs, output_filename")
	fs.StringVar(&baseDir, "base", ".", "base directory to search")
	fs.Var(&subdirs, "subdir", "subdirectory under base to scan (repeatable, order is kept)")
	fs.StringVar(&outName, "out", DefaultOutputFilename, "output workbook name, written under base")
	fs.StringVar(&pattern, "pattern", DefaultPattern, "file name pattern")
	fs.IntVar(&sampleRows, "sample", DefaultSampleRows, "rows sampled for column widths")
	fs.StringVar(&logFormat, "log-format", "text", "log format: text or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			cfg.BaseDir = baseDir
		case "subdir":
			cfg.Subdirs = subdirs
		case "out":
			cfg.OutputFilename = outName
		case "pattern":
			cfg.Pattern = pattern
		case "sample":
			cfg.SampleRows = sampleRows
		case "log-format":
			cfg.LogFormat = logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Нормализация путей
	cfg.BaseDir = filepath.Clean(cfg.BaseDir)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// пустой файл оставляет значения по умолчанию
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return errors.New("base_dir is required")
	}
	if len(c.Subdirs) == 0 {
		return errors.New("at least one subdir is required")
	}
	for i, d := range c.Subdirs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("subdirs[%d] is empty", i)
		}
	}
	if c.OutputFilename == "" {
		return errors.New("output_filename is required")
	}
	if filepath.Base(c.OutputFilename) != c.OutputFilename || strings.ContainsAny(c.OutputFilename, `/\`) {
		return fmt.Errorf("output_filename %q must be a file name, not a path", c.OutputFilename)
	}
	if !strings.EqualFold(filepath.Ext(c.OutputFilename), ".xlsx") {
		return fmt.Errorf("output_filename %q must have .xlsx extension", c.OutputFilename)
	}
	if c.Pattern == "" {
		return errors.New("pattern is required")
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("pattern %q: %w", c.Pattern, err)
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("sample_rows must be >= 0, got %d", c.SampleRows)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
