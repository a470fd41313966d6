package config

const (
	defaultConfigPath        = "~/.config/mp4convert/config.toml"
	defaultStateDir          = "~/.local/share/mp4convert"
	defaultLogDir            = "~/.local/share/mp4convert/logs"
	defaultHistoryFile       = "history.db"
	defaultTranscoderBinary  = "ffmpeg"
	defaultStrict            = "-2"
	defaultStderrTailLines   = 20
	defaultWalkerErrorPolicy = WalkerPropagate
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Walker error policies.
const (
	WalkerPropagate = "propagate"
	WalkerSkip      = "skip"
)

// Overwrite modes for existing destination files.
const (
	OverwriteAsk = ""
	OverwriteYes = "yes"
	OverwriteNo  = "no"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Transcoder: Transcoder{
			Binary:          defaultTranscoderBinary,
			Strict:          defaultStrict,
			StderrTailLines: defaultStderrTailLines,
		},
		Walker: Walker{
			ErrorPolicy: defaultWalkerErrorPolicy,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
