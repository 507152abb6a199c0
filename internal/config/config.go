package config

// Core configuration constants that define the boundaries and defaults
// for the offline plugin host.
const (
	// Default values for the host configuration
	DefaultBlockSize  = 1024        // Samples per processing block
	DefaultSampleRate = 44100       // Rate plugins are instantiated at (Hz)
	DefaultHTTPHost   = "127.0.0.1" // Web UI bind address
	DefaultHTTPPort   = 8417        // Web UI port
	DefaultVerbosity  = false       // Quiet operation

	// Processing limits
	MinBlockSize = 64   // Smallest block a plugin is driven with
	MaxBlockSize = 8192 // Largest block a plugin is driven with

	// Web UI asset lookup
	WebRootSearchDepth = 10 // Directory levels walked up when locating webui/
)

// Config holds all runtime configuration options for the host.
// It is constructed via command line flags; the processing core itself
// reads no environment variables.
type Config struct {
	// Processing Settings
	BlockSize  int     // Samples per block, clamped to [MinBlockSize, MaxBlockSize]
	SampleRate float64 // Instantiation sample rate in Hz

	// Preloaded State
	PluginPath string // Plugin to load at startup (optional)
	InputFile  string // Input audio path preset (optional)
	OutputFile string // Output WAV path preset (optional)

	// Web UI Settings
	HTTPHost string // Bind address for the web surface
	HTTPPort int    // Port for the web surface
	WebRoot  string // Explicit asset root; empty means search upward

	// Debug Options
	Verbose bool // Enable verbose logging
}

// NewConfig creates a new Config instance with default values.
// This is typically used as the base configuration before
// applying command line arguments.
func NewConfig() *Config {
	return &Config{
		BlockSize:  DefaultBlockSize,
		SampleRate: DefaultSampleRate,
		HTTPHost:   DefaultHTTPHost,
		HTTPPort:   DefaultHTTPPort,
		Verbose:    DefaultVerbosity,
	}
}

// ClampBlockSize bounds n to the supported block size range.
func ClampBlockSize(n int) int {
	if n < MinBlockSize {
		return MinBlockSize
	}
	if n > MaxBlockSize {
		return MaxBlockSize
	}
	return n
}
