package util

import (
	"strings"
)

// StringSliceFlag is a flag.Value holding a comma separated list.
// surrounding whitespace and empty entries are dropped.
type StringSliceFlag []string

func (s *StringSliceFlag) Set(value string) error {
	*s = nil
	for _, split := range strings.Split(value, ",") {
		split = strings.TrimSpace(split)
		if split == "" {
			continue
		}
		*s = append(*s, split)
	}
	return nil
}

func (s *StringSliceFlag) String() string {
	return strings.Join(*s, ",")
}
