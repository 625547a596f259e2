package models

import "strings"

func splitName(name string) (first string, last string) {
	tokens := strings.Fields(name)

	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], tokens[0]
	default:
		return tokens[0], tokens[len(tokens)-1]
	}
}
