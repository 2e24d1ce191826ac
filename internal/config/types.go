package config

// Config is the startup configuration. It is read once and never mutated.
type Config struct {
	InstanceID string    `yaml:"instance_id"`
	Region     string    `yaml:"region"`
	ListenAddr string    `yaml:"listen_addr"` // local server only
	Log        LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "json" or "text"
}
