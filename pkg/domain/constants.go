package domain

// Field constants for mapstructure and JSON standardization.
const (
	// SettingsKey is the fixed, versionless key the configuration is persisted under.
	SettingsKey = "scene_transition"

	// KeyInstructionTemplate is the blob key of Settings.InstructionTemplate.
	KeyInstructionTemplate = "instruction_template"

	// KeyAutoTriggerBackground is the blob key of Settings.AutoTriggerBackground.
	KeyAutoTriggerBackground = "auto_trigger_background"
)

// DefaultMaxTokens is the token budget used when a request does not set one.
const DefaultMaxTokens = 120

// ImageSources is the allow-list of image-generation source identifiers
// recognized by the availability probe.
var ImageSources = []string{
	"extras",
	"horde",
	"auto",
	"vlad",
	"novel",
	"openai",
	"comfy",
	"togetherai",
	"drawthings",
	"pollinations",
	"stability",
	"huggingface",
	"google",
}

// IsImageSource reports whether source is on the ImageSources allow-list.
func IsImageSource(source string) bool {
	for _, s := range ImageSources {
		if s == source {
			return true
		}
	}
	return false
}
