package internal

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultTopK is the number of matches printed when nothing else is asked for.
const DefaultTopK = 5

// S3Scheme prefixes folders that live in an S3 bucket, e.g. s3://bucket/flowers/.
const S3Scheme = "s3://"

type Config struct {
	Folder string // directory or s3://bucket/prefix to scan
	Input  string // reference image, unused by the random variant
	TopK   int

	Workers        int  // parallel descriptor workers
	MarkDuplicates bool // flag perceptual near-duplicates among the matches
	Silent         bool // suppress INFO logs
	ErrorsLog      string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// LoadEnv loads .env files if they exist (nearest first).
func LoadEnv() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		_ = godotenv.Load(path)
	}
}

func LoadConfig() Config {
	cfg := Config{
		Folder:         os.Getenv("RANKER_FOLDER"),
		Input:          os.Getenv("RANKER_INPUT"),
		TopK:           DefaultTopK,
		Workers:        runtime.NumCPU(),
		MarkDuplicates: false,
		Silent:         false,
		ErrorsLog:      os.Getenv("ERRORS_LOG"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    firstNonEmpty(os.Getenv("S3_REGION"), "us-east-1"),
		S3AccessKey: firstNonEmpty(os.Getenv("S3_ACCESS_KEY"), os.Getenv("S3_ACCESS_KEY_ID")),
		S3SecretKey: firstNonEmpty(os.Getenv("S3_SECRET_ACCESS_KEY"), os.Getenv("S3_SECRET_ACCESS_KEY_ID")),
	}

	if v := os.Getenv("TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TopK = n
		}
	}

	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	if v := os.Getenv("MARK_DUPLICATES"); v != "" {
		cfg.MarkDuplicates = parseBool(v)
	}

	if v := os.Getenv("SILENT"); v != "" {
		cfg.Silent = parseBool(v)
	}

	return cfg
}

// Validate checks the values a run cannot start without.
func (c Config) Validate() error {
	if c.Folder == "" {
		return errors.New("folder is required (-folder or RANKER_FOLDER)")
	}
	if c.TopK < 0 {
		return errors.New("top-k must be >= 0")
	}
	if c.IsS3() {
		if _, _, ok := c.S3Location(); !ok {
			return errors.New("s3 folder must look like s3://bucket/prefix")
		}
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return errors.New("S3_ACCESS_KEY and S3_SECRET_ACCESS_KEY are required for s3:// folders")
		}
	}
	return nil
}

func (c Config) IsS3() bool {
	return strings.HasPrefix(c.Folder, S3Scheme)
}

// S3Location splits an s3:// folder into bucket and key prefix. The prefix
// is either empty or ends with "/".
func (c Config) S3Location() (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(c.Folder, S3Scheme)
	if !found {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return bucket, prefix, true
}

func parseBool(v string) bool {
	return v != "false" && v != "0" && v != ""
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}
