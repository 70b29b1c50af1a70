package domain

// DefaultInstructionTemplate is the directive used when none is configured.
// {{char}} and {{user}} are substituted by the host templater before dispatch.
const DefaultInstructionTemplate = "Write a single short line, spoken or thought by {{char}}, " +
	"that moves the story with {{user}} into a new scene. Keep it in character and consistent with the conversation so far."

// Settings is the persisted scene-transition configuration.
type Settings struct {
	// InstructionTemplate is the base directive text. Never empty once resolved.
	InstructionTemplate string `json:"instruction_template" yaml:"instruction_template" mapstructure:"instruction_template"`

	// AutoTriggerBackground enables background regeneration when the request does not decide.
	AutoTriggerBackground bool `json:"auto_trigger_background" yaml:"auto_trigger_background" mapstructure:"auto_trigger_background"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		InstructionTemplate:   DefaultInstructionTemplate,
		AutoTriggerBackground: false,
	}
}

// Blob converts the settings into the loosely-typed map persisted by settings stores.
func (s Settings) Blob() map[string]any {
	return map[string]any{
		KeyInstructionTemplate:   s.InstructionTemplate,
		KeyAutoTriggerBackground: s.AutoTriggerBackground,
	}
}
