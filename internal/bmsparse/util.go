package bmsparse

import "nitro-core-dx/internal/chartmodel"

func difficultyFromInt(v int) chartmodel.Difficulty {
	return chartmodel.Difficulty(v)
}

// splitPrefixedHeader extracts the trailing 2-character object id from an
// uppercased header name like "WAV01" or "EXBPM7F" that carries the fixed
// prefix; ok is false if the name is not exactly prefix plus two characters.
func splitPrefixedHeader(upperName, prefix string) (id string, ok bool) {
	if len(upperName) != len(prefix)+2 {
		return "", false
	}
	if upperName[:len(prefix)] != prefix {
		return "", false
	}
	return upperName[len(prefix):], true
}
