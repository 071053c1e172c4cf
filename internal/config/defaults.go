package config

const (
	defaultStagingDir   = "~/.local/share/retake/staging"
	defaultLogDir       = "~/.local/share/retake/logs"
	defaultRunLogPath   = "~/.local/share/retake/runs.db"
	defaultWhisperCLI   = "whisper-cli"
	defaultFFmpeg       = "ffmpeg"
	defaultFFprobe      = "ffprobe"
	defaultAIFormat     = "openai"
	defaultAIModel      = "gpt-4o-mini"
	defaultAITimeout    = 45
	defaultAIRetries    = 3
	defaultAIWorkers    = 4
	defaultConfidence   = 0.5
	defaultSegmentChars = 50
	defaultGapThreshold = 1.0
	defaultCueMin       = 2.0
	defaultCueMax       = 5.0
	defaultMergeSilence = 0.5
	defaultCrossfadeMS  = 5
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			RunLogPath: defaultRunLogPath,
		},
		Engine: Engine{
			WhisperBinary: defaultWhisperCLI,
			FFmpegBinary:  defaultFFmpeg,
			FFprobeBinary: defaultFFprobe,
			Language:      "auto",
		},
		AI: AI{
			Format:         defaultAIFormat,
			Model:          defaultAIModel,
			TimeoutSeconds: defaultAITimeout,
			RetryAttempts:  defaultAIRetries,
			Workers:        defaultAIWorkers,
		},
		Quality: Quality{
			ConfidenceThreshold: defaultConfidence,
			MaxSegmentChars:     defaultSegmentChars,
			GapThresholdSeconds: defaultGapThreshold,
		},
		Cues: Cues{
			MinSeconds:          defaultCueMin,
			MaxSeconds:          defaultCueMax,
			MergeSilenceSeconds: defaultMergeSilence,
		},
		Output: Output{
			CrossfadeMilliseconds:  defaultCrossfadeMS,
			SecondaryTranscription: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
