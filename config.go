package gridql

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ReaderConfig is the option set of one leaf reader. Each implementation
// serializes to the JSON configuration blob embedded in the reader's IR
// node; ReaderName is the engine-side reader name carried in that blob.
type ReaderConfig interface {
	ReaderName() string
	Validate() error
}

// NativeReaderConfig reads a previously persisted native dataset.
type NativeReaderConfig struct {
	Path string `json:"path" yaml:"path"`
}

func (c *NativeReaderConfig) ReaderName() string { return "MatrixNativeReader" }

func (c *NativeReaderConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: native reader requires a path", ErrConfigValidation)
	}
	return nil
}

// RangeReaderConfig generates a synthetic row/column range split into
// Partitions pieces.
type RangeReaderConfig struct {
	Rows       int `json:"nRows" yaml:"rows"`
	Cols       int `json:"nCols" yaml:"cols"`
	Partitions int `json:"nPartitions" yaml:"partitions"`
}

func (c *RangeReaderConfig) ReaderName() string { return "MatrixRangeReader" }

func (c *RangeReaderConfig) Validate() error {
	if c.Rows < 0 || c.Cols < 0 {
		return fmt.Errorf("%w: range reader dimensions must be non-negative", ErrConfigValidation)
	}
	if c.Partitions < 1 {
		return fmt.Errorf("%w: range reader requires at least one partition", ErrConfigValidation)
	}
	return nil
}

// VCFReaderConfig imports VCF flat files.
type VCFReaderConfig struct {
	Files                 []string          `json:"files" yaml:"files"`
	CallFields            []string          `json:"callFields" yaml:"call_fields"`
	HeaderFile            string            `json:"headerFile,omitempty" yaml:"header_file"`
	MinPartitions         int               `json:"minPartitions,omitempty" yaml:"min_partitions"`
	ReferenceGenome       string            `json:"rg,omitempty" yaml:"reference_genome"`
	ContigRecoding        map[string]string `json:"contigRecoding,omitempty" yaml:"contig_recoding"`
	ArrayElementsRequired bool              `json:"arrayElementsRequired" yaml:"array_elements_required"`
	SkipInvalidLoci       bool              `json:"skipInvalidLoci" yaml:"skip_invalid_loci"`
	GzAsBGZ               bool              `json:"gzAsBGZ" yaml:"gz_as_bgz"`
	ForceGZ               bool              `json:"forceGZ" yaml:"force_gz"`
}

func (c *VCFReaderConfig) ReaderName() string { return "MatrixVCFReader" }

func (c *VCFReaderConfig) Validate() error {
	if len(c.Files) == 0 {
		return fmt.Errorf("%w: VCF reader requires at least one file", ErrConfigValidation)
	}
	return nil
}

// BGENReaderConfig imports BGEN flat files. VariantsPerFile carries
// per-file record-count hints keyed by unresolved file path.
type BGENReaderConfig struct {
	Files           []string          `json:"files" yaml:"files"`
	EntryFields     []string          `json:"entryFields" yaml:"entry_fields"`
	SampleFile      string            `json:"sampleFile,omitempty" yaml:"sample_file"`
	Partitions      int               `json:"nPartitions,omitempty" yaml:"partitions"`
	BlockSizeMB     int               `json:"blockSizeInMB,omitempty" yaml:"block_size_mb"`
	ReferenceGenome string            `json:"rg,omitempty" yaml:"reference_genome"`
	ContigRecoding  map[string]string `json:"contigRecoding,omitempty" yaml:"contig_recoding"`
	SkipInvalidLoci bool              `json:"skipInvalidLoci" yaml:"skip_invalid_loci"`
	RowFields       []string          `json:"rowFields" yaml:"row_fields"`
	VariantsPerFile map[string][]int  `json:"includedVariantsPerUnresolvedFilePath,omitempty" yaml:"variants_per_file"`
}

func (c *BGENReaderConfig) ReaderName() string { return "MatrixBGENReader" }

func (c *BGENReaderConfig) Validate() error {
	if len(c.Files) == 0 {
		return fmt.Errorf("%w: BGEN reader requires at least one file", ErrConfigValidation)
	}
	if len(c.EntryFields) == 0 {
		return fmt.Errorf("%w: BGEN reader requires at least one entry field", ErrConfigValidation)
	}
	return nil
}

// ImportConfig is the on-disk YAML shape for a reader pipeline: one reader
// kind plus the column/row drop flags that live on the read node itself.
type ImportConfig struct {
	Reader   string              `yaml:"reader"`
	DropCols bool                `yaml:"drop_cols"`
	DropRows bool                `yaml:"drop_rows"`
	Native   *NativeReaderConfig `yaml:"native"`
	Range    *RangeReaderConfig  `yaml:"range"`
	VCF      *VCFReaderConfig    `yaml:"vcf"`
	BGEN     *BGENReaderConfig   `yaml:"bgen"`
}

// ReaderConfig returns the configured reader section for ic.Reader.
func (ic *ImportConfig) ReaderConfig() (ReaderConfig, error) {
	switch ic.Reader {
	case "native":
		if ic.Native == nil {
			return nil, fmt.Errorf("%w: missing native section", ErrConfigValidation)
		}
		return ic.Native, nil
	case "range":
		if ic.Range == nil {
			return nil, fmt.Errorf("%w: missing range section", ErrConfigValidation)
		}
		return ic.Range, nil
	case "vcf":
		if ic.VCF == nil {
			return nil, fmt.Errorf("%w: missing vcf section", ErrConfigValidation)
		}
		return ic.VCF, nil
	case "bgen":
		if ic.BGEN == nil {
			return nil, fmt.Errorf("%w: missing bgen section", ErrConfigValidation)
		}
		return ic.BGEN, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReader, ic.Reader)
	}
}

// LoadImportConfig loads a reader pipeline configuration from a YAML file.
// A .env file in the working directory is loaded first and ${VAR}/$VAR
// references in file paths are expanded from the environment.
func LoadImportConfig(configPath string) (*ImportConfig, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read import config: %w", err)
	}

	var config ImportConfig
	if err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse import config: %w", err)
	}

	expandImportEnvVars(&config)

	reader, err := config.ReaderConfig()
	if err != nil {
		return nil, err
	}
	if err := reader.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// loadEnvFiles loads a .env file if it exists
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}
	return nil
}

var (
	envBraceRe = regexp.MustCompile(`\$\{([^}]+)\}`)
	envBareRe  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = envBraceRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
	s = envBareRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
	return s
}

// expandImportEnvVars expands environment variables in file paths
func expandImportEnvVars(config *ImportConfig) {
	if config.Native != nil {
		config.Native.Path = expandEnvVars(config.Native.Path)
	}
	if config.VCF != nil {
		for i, f := range config.VCF.Files {
			config.VCF.Files[i] = expandEnvVars(f)
		}
		config.VCF.HeaderFile = expandEnvVars(config.VCF.HeaderFile)
	}
	if config.BGEN != nil {
		for i, f := range config.BGEN.Files {
			config.BGEN.Files[i] = expandEnvVars(f)
		}
		config.BGEN.SampleFile = expandEnvVars(config.BGEN.SampleFile)
	}
}
