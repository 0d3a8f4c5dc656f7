// Package config provides configuration management for delivery-admin.
//
// It loads an optional .env file with godotenv, then resolves every key with
// Viper from the environment (REMOTE_BASE_URL -> remote.base_url), falling back
// to the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: admin API port, body limit, read-only switch
//   - Remote: catalog store URL, timeout, rate limit, reconcile concurrency
//   - Database: journal driver (sqlite, mysql) and connection details
//   - Storage: S3/MinIO credentials and bucket for journal exports
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Remote.BaseURL)
package config
