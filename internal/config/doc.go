// Package config loads the xenstore configuration.
//
// Configuration is a YAML file layered over DefaultConfig. ${VAR} and
// ${VAR:-default} references are replaced from the environment before
// parsing, and unknown keys are rejected:
//
//	store:
//	  maxAbsPath: 3072
//	  maxRelPath: 2048
//	  maxNodeSize: 2048
//	  maxDomainNodes: 1000
//	  seed: "${XENSTORE_SEED:-}"
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/xenstore.log"
//
//	metrics:
//	  enabled: true
//	  namespace: "xenstore"
//
//	shell:
//	  domain: 0
//	  prompt: "xs> "
//	  compression: "zstd"
package config
