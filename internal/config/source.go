package config

const (
	SourceFS      = "fs"
	SourceS3      = "s3"
	SourceArchive = "archive"

	CodecZstd = "zstd"
	CodecGzip = "gzip"
)

var ContentSources = []string{SourceFS, SourceS3, SourceArchive}

// Environment variables read on top of the config file.
const (
	EnvS3AccessKeyID     = "FOLIO_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "FOLIO_S3_SECRET_ACCESS_KEY"
	EnvLogLevel          = "FOLIO_LOG_LEVEL"
)
