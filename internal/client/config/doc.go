// Package config loads runtime configuration for the TodoKeeper terminal
// client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags:
//
//	-a string   base URL of the API server (default http://localhost:3000)
//	-t int      request timeout in seconds
//	-i int      online status check interval in seconds
//
// JSON file:
//
//	{
//	  "server_endpoint_addr": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
