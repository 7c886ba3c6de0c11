package snapshot

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/backoffice-qa/backoffice-e2e/internal/imagecmp"
)

func screenshot(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	data, err := imagecmp.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func TestMatchRecordsMissingBaseline(t *testing.T) {
	m := &Matcher{Dir: t.TempDir(), Threshold: 0.1, Log: zaptest.NewLogger(t)}
	shot := screenshot(t, color.White)

	require.NoError(t, m.Match("Admin/Catalog page", shot))
	assert.FileExists(t, m.Path("Admin/Catalog page"))
	assert.Equal(t, "Admin_Catalog_page.png", m.Path("Admin/Catalog page")[len(m.Dir)+1:])

	require.NoError(t, m.Match("Admin/Catalog page", shot))
}

func TestMatchReportsDifference(t *testing.T) {
	m := &Matcher{Dir: t.TempDir(), Threshold: 0.1, Log: zaptest.NewLogger(t)}
	require.NoError(t, m.Match("login", screenshot(t, color.White)))

	err := m.Match("login", screenshot(t, color.Black))
	var mm *MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, 16*9, mm.Cause.Mismatched)
	assert.FileExists(t, mm.Actual)
	assert.FileExists(t, mm.Diff)

	var cause *imagecmp.MismatchError
	assert.ErrorAs(t, err, &cause)
}

func TestMatchSkipAndUpdate(t *testing.T) {
	dir := t.TempDir()

	skip := &Matcher{Dir: dir, Skip: true}
	require.NoError(t, skip.Match("main", screenshot(t, color.White)))
	_, err := os.Stat(skip.Path("main"))
	assert.True(t, os.IsNotExist(err))

	m := &Matcher{Dir: dir, Threshold: 0.1}
	require.NoError(t, m.Match("main", screenshot(t, color.White)))

	update := &Matcher{Dir: dir, Threshold: 0.1, Update: true}
	require.NoError(t, update.Match("main", screenshot(t, color.Black)))
	require.NoError(t, m.Match("main", screenshot(t, color.Black)))
}
