package mp4

var startCode = []byte{0, 0, 0, 1}

// avccToAnnexB converts length-prefixed NAL units to start-code-prefixed
// ones; a truncated trailing unit is dropped.
func avccToAnnexB(data []byte) []byte {
	result := make([]byte, 0, len(data)+len(startCode))
	offset := 0
	for offset+4 <= len(data) {
		naluLen := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4
		if naluLen < 0 || offset+naluLen > len(data) {
			break
		}
		result = append(result, startCode...)
		result = append(result, data[offset:offset+naluLen]...)
		offset += naluLen
	}
	return result
}

func parameterSetsAnnexB(setGroups ...[][]byte) []byte {
	var result []byte
	for _, sets := range setGroups {
		for _, set := range sets {
			result = append(result, startCode...)
			result = append(result, set...)
		}
	}
	return result
}

func withPrefix(prefix, data []byte) []byte {
	if len(prefix) == 0 {
		return data
	}
	result := make([]byte, len(prefix)+len(data))
	copy(result, prefix)
	copy(result[len(prefix):], data)
	return result
}
