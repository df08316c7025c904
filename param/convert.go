package param

import (
	"fmt"
	"math"
	"strconv"
)

func Str2Bool(value string) (bool, error) {
	switch value {
	case "1", "true", "True", "TRUE":
		return true, nil
	case "0", "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", value)
}

func Str2U32(value string) (uint32, error) {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%d is out of the uint32 range", v)
	}
	return uint32(v), nil
}

func Str2Int(value string) (int, error) {
	v, err := strconv.ParseInt(value, 10, 0)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func Str2Float(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}
