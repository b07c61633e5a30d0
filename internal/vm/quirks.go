package vm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownProfile is returned for quirk profile names that are not known.
var ErrUnknownProfile = errors.New("unknown quirk profile")

// Quirk profile names.
const (
	ProfileModern = "modern"
	ProfileCosmac = "cosmac"
	ProfileSchip  = "schip"
)

// Quirks selects the behavior of instructions that differ between CHIP-8
// implementations. The zero value is the common modern behavior.
type Quirks struct {
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY and store the result in VX.
	ShiftUsesVY bool
	// JumpUsesVX makes BNNN jump to NNN plus VX, X being the high nibble of NNN.
	JumpUsesVX bool
	// MemoryIncrementsIndex makes FX55 and FX65 advance I past the last
	// accessed address.
	MemoryIncrementsIndex bool
	// LogicResetsFlag makes 8XY1, 8XY2 and 8XY3 clear VF.
	LogicResetsFlag bool
}

var profiles = map[string]Quirks{
	ProfileModern: {},
	ProfileCosmac: {
		ShiftUsesVY:           true,
		MemoryIncrementsIndex: true,
		LogicResetsFlag:       true,
	},
	ProfileSchip: {
		JumpUsesVX: true,
	},
}

// QuirksFromProfile returns the quirks of the named profile.
func QuirksFromProfile(name string) (Quirks, error) {
	q, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Quirks{}, fmt.Errorf("%w '%s', valid profiles: %s",
			ErrUnknownProfile, name, strings.Join(Profiles(), ", "))
	}
	return q, nil
}

// Profiles returns the sorted names of all quirk profiles.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
