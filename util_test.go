package cucumber

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindFeatures(t *testing.T) {
	files, err := findFeatures(".")
	assert.NoError(t, err)
	assert.Contains(t, files, filepath.Join("testdata", "features", "concat.feature"))

	files, err = findFeatures(filepath.Join("testdata", "features"))
	assert.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "features", "concat.feature"),
		filepath.Join("testdata", "features", "nested", "failing.feature"),
	}, files)

	files, err = findFeatures(filepath.Join("testdata", "features", "concat.feature"))
	assert.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "features", "concat.feature")}, files)

	_, err = findFeatures(filepath.Join("testdata", "missing"))
	assert.Error(t, err)
}
