package constant

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// Backing store backends selectable through config.
	BackendBadger = "badger"
	BackendMemory = "memory"
	BackendConsul = "consul"
	BackendNATS   = "nats"

	CodecJSON = "json"
	CodecYAML = "yaml"
)
