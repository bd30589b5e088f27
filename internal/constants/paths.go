package constants

// DefaultEnvPath is the default path to the .env file
const DefaultEnvPath = "./.env"

// DefaultConfigPath is the default path to the config file.
// A missing file is not an error: built-in defaults are used instead.
const DefaultConfigPath = "./cronreg.toml"

// EnvConfigPath overrides DefaultConfigPath when --config is not given.
const EnvConfigPath = "CRONREG_CONFIG"
