package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecoderType selects the decoder variant created on the first metadata
// callback of a stream.
type DecoderType int

const (
	UndefinedDecoderType = DecoderType(iota)
	DecoderTypeSoftware
	DecoderTypeHardware
	endOfDecoderType
)

func (t DecoderType) String() string {
	switch t {
	case UndefinedDecoderType:
		return "undefined"
	case DecoderTypeSoftware:
		return "software"
	case DecoderTypeHardware:
		return "hardware"
	}
	return fmt.Sprintf("unknown_%d", int(t))
}

// DecoderTypeFromString accepts "cpu"/"mlu" as aliases of "software"/"hardware".
func DecoderTypeFromString(s string) (DecoderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "software", "cpu":
		return DecoderTypeSoftware, nil
	case "hardware", "mlu", "hw":
		return DecoderTypeHardware, nil
	}
	return UndefinedDecoderType, fmt.Errorf("unknown decoder type: '%s'", s)
}

func (t DecoderType) IsValid() bool {
	return t > UndefinedDecoderType && t < endOfDecoderType
}

func (t *DecoderType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	r, err := DecoderTypeFromString(s)
	if err != nil {
		return err
	}
	*t = r
	return nil
}

func (t DecoderType) MarshalYAML() (any, error) {
	return t.String(), nil
}
