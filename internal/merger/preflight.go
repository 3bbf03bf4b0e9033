package merger

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CheckCapabilities проверяет, что запись XLSX доступна, до любой работы с файловой системой.
func CheckCapabilities() error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: xlsx writer: new workbook has no sheets", ErrMissingCapability)
	}
	sw, err := f.NewStreamWriter(sheets[0])
	if err != nil {
		return fmt.Errorf("%w: xlsx stream writer: %v", ErrMissingCapability, err)
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: xlsx stream writer: %v", ErrMissingCapability, err)
	}
	if _, err := f.WriteToBuffer(); err != nil {
		return fmt.Errorf("%w: xlsx serialization: %v", ErrMissingCapability, err)
	}
	return nil
}
