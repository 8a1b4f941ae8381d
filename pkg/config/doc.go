// Package config loads controller configuration from YAML files.
//
// A configuration file describes how the controller reaches its CEC
// bridge and how it presents itself on the bus:
//
//	bridge:
//	  address: 10.0.0.5:9526
//	  connect_timeout: 10s
//	device:
//	  source: 4
//	  osd_name: Player
//	actions:
//	  response_timeout: 1s
//	log:
//	  level: info
//	  file: /var/log/cec-controller.cbor
//
// Every field has a default; an empty file is a valid configuration
// apart from the bridge address, which must be set either in the file
// or on the command line.
package config
