package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.quill/`
	LogFile        = `quill.log`

	DefaultServerURL     = `http://localhost:9094/graphql`
	DefaultTranscribeURL = `http://localhost:9099/transcribe`
	DefaultLanguage      = `ru`
)
