package payment

import (
	"fmt"
	"sort"
)

// DevelopmentSecret is the shared secret that the payment backend is configured with
// for local development. It must never be used against a real deployment.
const DevelopmentSecret = "super_secret_key_123"

// Preset is a canned request for manually exercising the API: the body is exactly
// what will be sent via curl -d, and the idempotency key should be changed between
// runs
type Preset struct {
	Name           string
	Secret         string
	Body           string
	IdempotencyKey string
}

const DefaultPreset = "collect"

var Presets = map[string]Preset{
	"collect": {
		Name:           "collect",
		Secret:         DevelopmentSecret,
		Body:           `{"senderUpi":"oliver@upi","receiverUpi":"lucas@upi","amount":3490.40}`,
		IdempotencyKey: "op-collect-20240603-testA",
	},
	"test": {
		Name:           "test",
		Secret:         DevelopmentSecret,
		Body:           `{"senderUpi":"toby@upi","receiverUpi":"grace@upi","amount":7182.50}`,
		IdempotencyKey: "op-test-20240603-xyz",
	},
}

// LookupPreset returns the preset with the given name
func LookupPreset(name string) (Preset, error) {
	preset, ok := Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset '%s' (available: %v)", name, PresetNames())
	}
	return preset, nil
}

// PresetNames returns the names of all presets, sorted
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
