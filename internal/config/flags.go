package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-s vault server base URL (client)
//	-session client session store path
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-push-max-failures delivery-failure threshold before eviction
//	-push-interval notifier enumeration interval (e.g., "1h")
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var databaseDSN string
	var serverURL string
	var sessionPath string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var pushMaxFailures int
	var pushInterval time.Duration

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&serverURL, "s", "", "Vault server base URL")
	flag.StringVar(&sessionPath, "session", "", "Client session store path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.IntVar(&pushMaxFailures, "push-max-failures", 0, "Push delivery-failure threshold")
	flag.DurationVar(&pushInterval, "push-interval", 0, "Push notifier interval (e.g., 1h)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB:      DB{DSN: databaseDSN},
			Session: Session{Path: sessionPath},
		},
		Server: Server{
			Address:        serverAddress,
			RequestTimeout: requestTimeout,
		},
		Push: Push{
			MaxFailures: pushMaxFailures,
			Interval:    pushInterval,
		},
		Client: Client{
			ServerURL: serverURL,
		},
		JSONFilePath: jsonConfigPath,
	}
}
