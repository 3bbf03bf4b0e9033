package merger

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DirResult - результат поиска файлов в одном подкаталоге
type DirResult struct {
	Name  string
	Path  string
	Found bool
	Files []string
	Err   error
}

// Discover ищет файлы по шаблону непосредственно в каждом подкаталоге baseDir.
// Порядок подкаталогов сохраняется, внутри каталога файлы идут в лексическом порядке.
func Discover(logger *slog.Logger, baseDir string, subdirs []string, pattern string) []DirResult {
	results := make([]DirResult, 0, len(subdirs))
	for _, name := range subdirs {
		res := listDir(baseDir, name, pattern)
		switch {
		case res.Err != nil:
			logger.Error("cannot list directory", "dir", res.Path, "error", res.Err)
		case !res.Found:
			logger.Warn("directory not found", "dir", res.Path)
		default:
			logger.Info(fmt.Sprintf("found %d CSV files", len(res.Files)), "dir", name, "count", len(res.Files))
		}
		results = append(results, res)
	}
	return results
}

func listDir(baseDir, name, pattern string) DirResult {
	res := DirResult{Name: name, Path: filepath.Join(baseDir, name)}

	info, err := os.Stat(res.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}
	if !info.IsDir() {
		return res
	}
	res.Found = true

	entries, err := os.ReadDir(res.Path)
	if err != nil {
		res.Err = err
		return res
	}

	// как и glob в оболочке, скрытые файлы берем только при явной точке в шаблоне
	hidden := strings.HasPrefix(pattern, ".")
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), ".") && !hidden {
			continue
		}
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			res.Err = err
			res.Files = nil
			return res
		}
		if ok {
			res.Files = append(res.Files, filepath.Join(res.Path, e.Name()))
		}
	}
	return res
}

// Files собирает найденные файлы всех каталогов в один список
func Files(results []DirResult) []string {
	var files []string
	for _, r := range results {
		files = append(files, r.Files...)
	}
	return files
}
