package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cipher/internal/flagx"
	"github.com/dmitrijs2005/cipher/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept either a Go
// duration string such as "45m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SealKey                     string         `json:"seal_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	TOTPIssuer                  string         `json:"totp_issuer"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ExportLinkValidityDuration  timex.Duration `json:"export_link_validity_duration"`
}

// parseJson overlays values from the file named by -c/-config. Keys absent
// from the file leave the current value untouched. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		EndpointAddrGRPC:            config.EndpointAddrGRPC,
		DatabaseDSN:                 config.DatabaseDSN,
		SecretKey:                   config.SecretKey,
		SealKey:                     config.SealKey,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		TOTPIssuer:                  config.TOTPIssuer,
		S3RootUser:                  config.S3RootUser,
		S3RootPassword:              config.S3RootPassword,
		S3Bucket:                    config.S3Bucket,
		S3Region:                    config.S3Region,
		S3BaseEndpoint:              config.S3BaseEndpoint,
		ExportLinkValidityDuration:  timex.Duration{Duration: config.ExportLinkValidityDuration},
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SealKey = c.SealKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.TOTPIssuer = c.TOTPIssuer
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.ExportLinkValidityDuration = c.ExportLinkValidityDuration.Duration
}
