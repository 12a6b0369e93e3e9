package diag

// Code is the stable identifier of a rule. Suppressions (#pragma, baseline,
// configuration) refer to these strings, so they never change.
type Code string

const (
	UnknownCode Code = ""

	// HasTooltip: private serialized field without a Tooltip attribute.
	HasTooltip Code = "HasToolTip"
	// NonEmptyTooltip: Tooltip attribute with an empty description.
	NonEmptyTooltip Code = "UCNonEmptyTooltip"
	// PrivateField: serialized behaviour field that is not private.
	PrivateField Code = "UCPrivateField"
)

var knownCodes = []Code{HasTooltip, NonEmptyTooltip, PrivateField}

// KnownCodes returns every code defined by this package in a stable order.
func KnownCodes() []Code {
	out := make([]Code, len(knownCodes))
	copy(out, knownCodes)
	return out
}

// ParseCode maps a string to a known Code.
func ParseCode(s string) (Code, bool) {
	for _, c := range knownCodes {
		if string(c) == s {
			return c, true
		}
	}
	return UnknownCode, false
}

func (c Code) ID() string {
	return string(c)
}

func (c Code) String() string {
	if c == UnknownCode {
		return "UNKNOWN"
	}
	return string(c)
}
