package domain

import "strings"

// Capability is a bit-set of lockable grid abilities.
type Capability uint8

// Lockable capabilities.
const (
	CapabilityHover Capability = 1 << iota
	CapabilitySelect
	CapabilityDrag
	CapabilityDrop

	CapabilityNone Capability = 0
	CapabilityAll             = CapabilityHover | CapabilitySelect | CapabilityDrag | CapabilityDrop
)

// capabilityNames stores the canonical order used for formatting.
var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapabilityHover, "hover"},
	{CapabilitySelect, "select"},
	{CapabilityDrag, "drag"},
	{CapabilityDrop, "drop"},
}

// Has reports whether every bit of other is set.
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

// String formats the set as a comma-separated list.
func (c Capability) String() string {
	names := make([]string, 0, len(capabilityNames))
	for _, entry := range capabilityNames {
		if c&entry.cap != 0 {
			names = append(names, entry.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseCapability parses one capability name.
func ParseCapability(raw string) (Capability, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "all" {
		return CapabilityAll, nil
	}
	for _, entry := range capabilityNames {
		if entry.name == raw {
			return entry.cap, nil
		}
	}
	return CapabilityNone, ErrInvalidCapability
}
