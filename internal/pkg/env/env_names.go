package env

const (
	EnvServiceName = "SERVICE_NAME"
	EnvEnvironment = "ENV"

	EnvLogFile   = "LOG_FILE"
	EnvLogOutput = "LOG_OUTPUT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvReceiptsDir = "RECEIPTS_DIR"
	EnvMetricsAddr = "METRICS_ADDR"
	EnvSeedFile    = "SEED_FILE"
)
