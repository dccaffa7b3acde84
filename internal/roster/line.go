package roster

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownLineKind = errors.New("unknown line kind")

// LineKind is the role group a slot belongs to.
type LineKind int

const (
	LineUnknown LineKind = iota
	LineForward
	LineDefense
	LineGoalie
)

// ParseLineKind is strict: a typo in a line kind is a document error.
func ParseLineKind(s string) (LineKind, error) {
	switch normalizeLabel(s) {
	case "forward":
		return LineForward, nil
	case "defense":
		return LineDefense, nil
	case "goalie":
		return LineGoalie, nil
	default:
		return LineUnknown, fmt.Errorf("%w: %q", ErrUnknownLineKind, s)
	}
}

func (k LineKind) String() string {
	switch k {
	case LineForward:
		return "forward"
	case LineDefense:
		return "defense"
	case LineGoalie:
		return "goalie"
	default:
		return "unknown"
	}
}

// IsSkater reports whether slots of this kind take regular shifts.
func (k LineKind) IsSkater() bool {
	return k == LineForward || k == LineDefense
}

func (k LineKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *LineKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseLineKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}
