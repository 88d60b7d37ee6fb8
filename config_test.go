package gridql

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	assert.NoError(t, err)
	return path
}

func TestLoadImportConfigVCF(t *testing.T) {
	path := writeConfig(t, `
reader: vcf
drop_rows: true
vcf:
  files:
    - data/sample.vcf
  call_fields:
    - GT
  reference_genome: GRCh38
  skip_invalid_loci: true
`)
	config, err := LoadImportConfig(path)
	assert.NoError(t, err)
	assert.True(t, config.DropRows)
	assert.False(t, config.DropCols)

	reader, err := config.ReaderConfig()
	assert.NoError(t, err)
	assert.Equal(t, "MatrixVCFReader", reader.ReaderName())

	vcf, ok := reader.(*VCFReaderConfig)
	assert.True(t, ok)
	assert.Equal(t, []string{"data/sample.vcf"}, vcf.Files)
	assert.Equal(t, "GRCh38", vcf.ReferenceGenome)
	assert.True(t, vcf.SkipInvalidLoci)
}

func TestLoadImportConfigEnvExpansion(t *testing.T) {
	t.Setenv("GRIDQL_DATA", "/srv/data")
	path := writeConfig(t, `
reader: native
native:
  path: ${GRIDQL_DATA}/dataset.mt
`)
	config, err := LoadImportConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "/srv/data/dataset.mt", config.Native.Path)
}

func TestLoadImportConfigErrors(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected error
	}{
		{
			name:     "unknown reader",
			content:  "reader: parquet\n",
			expected: ErrUnknownReader,
		},
		{
			name:     "missing section",
			content:  "reader: vcf\n",
			expected: ErrConfigValidation,
		},
		{
			name:     "vcf without files",
			content:  "reader: vcf\nvcf:\n  call_fields: [GT]\n",
			expected: ErrConfigValidation,
		},
		{
			name:     "range without partitions",
			content:  "reader: range\nrange:\n  rows: 10\n  cols: 5\n",
			expected: ErrConfigValidation,
		},
		{
			name:     "bgen without entry fields",
			content:  "reader: bgen\nbgen:\n  files: [a.bgen]\n",
			expected: ErrConfigValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadImportConfig(writeConfig(t, tc.content))
			assert.IsError(t, err, tc.expected)
		})
	}
}

func TestRangeReaderValidate(t *testing.T) {
	ok := &RangeReaderConfig{Rows: 10, Cols: 2, Partitions: 1}
	assert.NoError(t, ok.Validate())

	bad := &RangeReaderConfig{Rows: -1, Cols: 2, Partitions: 1}
	assert.IsError(t, bad.Validate(), ErrConfigValidation)
}
