package merger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSample(t *testing.T) {
	tbl := NewTable("id", "名前", "note")
	tbl.Rows = [][]any{
		{int64(1), "作業員", strings.Repeat("x", 200)},
		{int64(123456789012), nil, "short"},
	}

	var bm BaseMerger
	bm.Init()
	bm.AnalyzeSample(tbl, 10)

	assert.Equal(t, []string{"id", "名前", "note"}, bm.Headers)
	assert.Equal(t, 12, bm.MaxColWidths[0])
	// CJK символы занимают две позиции
	assert.Equal(t, 6, bm.MaxColWidths[1])
	assert.Equal(t, 200, bm.MaxColWidths[2])

	assert.Equal(t, 14.0, bm.ColWidth(0))
	assert.Equal(t, float64(minColWidth), bm.ColWidth(1))
	assert.Equal(t, float64(maxColWidth), bm.ColWidth(2))
}

func TestAnalyzeSampleLimit(t *testing.T) {
	tbl := NewTable("v")
	tbl.Rows = [][]any{{"a"}, {strings.Repeat("b", 30)}}

	var bm BaseMerger
	bm.Init()
	bm.AnalyzeSample(tbl, 1)
	assert.Equal(t, 1, bm.MaxColWidths[0])

	// повторный анализ не наследует старые значения
	bm.AnalyzeSample(NewTable("v"), 0)
	assert.Equal(t, 1, bm.MaxColWidths[0])
}

func TestCheckCapabilities(t *testing.T) {
	require.NoError(t, CheckCapabilities())
}
