package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDKind prefixes generated identifiers by what they name.
type IDKind string

const (
	IDKindRun      IDKind = "run"
	IDKindArtifact IDKind = "art"
	IDKindEnvelope IDKind = "env"
	IDKindRule     IDKind = "rule"
	IDKindNode     IDKind = "node"
)

var validIDKinds = map[IDKind]bool{
	IDKindRun:      true,
	IDKindArtifact: true,
	IDKindEnvelope: true,
	IDKindRule:     true,
	IDKindNode:     true,
}

var idRegex = regexp.MustCompile(`^(run|art|env|rule|node)_[0-9]{10}_[0-9a-f]{8}$`)

// GenerateID returns "<kind>_<unix seconds>_<uuid fragment>". Unknown
// kinds fall back to IDKindNode so callers never receive an empty id.
func GenerateID(kind IDKind) string {
	if !validIDKinds[kind] {
		kind = IDKindNode
	}
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%010d_%s", kind, time.Now().Unix(), fragment)
}

// ValidateID reports whether id matches the generated format.
func ValidateID(id string) bool {
	return idRegex.MatchString(id)
}

// ParseIDTimestamp extracts the creation time embedded in a generated id.
func ParseIDTimestamp(id string) (time.Time, error) {
	if !ValidateID(id) {
		return time.Time{}, fmt.Errorf("invalid id format: %s", id)
	}
	tsStr := id[len(id)-19 : len(id)-9]
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp from id %s: %w", id, err)
	}
	return time.Unix(ts, 0), nil
}
