package runtime

import "github.com/aretw0/segue/pkg/domain"

// DecideBackground decides whether background regeneration fires.
//
// An explicit flag always wins. Otherwise the persisted auto flag must be set
// and the probe must report an available image backend. The probe is only
// called when its answer matters; a nil probe counts as unavailable.
func DecideBackground(explicit *bool, settings domain.Settings, probe func() bool) bool {
	if explicit != nil {
		return *explicit
	}
	if !settings.AutoTriggerBackground {
		return false
	}
	return probe != nil && probe()
}
