// Package config loads the ContractFlow server configuration.
//
// Values are layered: built-in defaults, then contractflow.yaml, then
// CONTRACTFLOW_* environment variables. The result is validated before it
// is returned.
//
// # Configuration File Structure
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	log:
//	  level: info
//	  format: json
//	storage:
//	  backend: sqlite
//	  path: /var/lib/contractflow/storage.db
//	  timeout: 5s
//	auth:
//	  tokenTTL: 24h
//	metrics:
//	  enabled: true
//
// Nested keys map to environment variables by joining their names, so
// storage.s3.bucket is CONTRACTFLOW_STORAGE_S3_BUCKET.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
