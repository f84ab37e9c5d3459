package nbt

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Format selects the binary wire encoding. The two editions share the same
// structure and differ only in the byte order of multi-byte values and
// length prefixes.
type Format int

const (
	// JavaEdition is the big-endian encoding.
	JavaEdition Format = iota
	// BedrockEdition is the little-endian encoding.
	BedrockEdition
)

func (f Format) String() string {
	switch f {
	case JavaEdition:
		return "java"
	case BedrockEdition:
		return "bedrock"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ByteOrder returns the byte order mandated by f.
func (f Format) ByteOrder() binary.ByteOrder {
	if f == BedrockEdition {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ParseFormat accepts "java"/"je" and "bedrock"/"be", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "java", "je", "javaedition":
		return JavaEdition, nil
	case "bedrock", "be", "bedrockedition":
		return BedrockEdition, nil
	}
	return 0, fmt.Errorf("nbt: unknown format %q", s)
}
