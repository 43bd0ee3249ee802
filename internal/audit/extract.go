package audit

import (
	"strings"

	"github.com/google/uuid"
)

// Capability interfaces for target extraction. Domain types that can be
// identified or named in an audit record implement these; extraction is then
// a type-checked dispatch instead of runtime probing for accessor methods.

// Identifiable exposes an audit-stable identifier for a domain entity.
type Identifiable interface {
	AuditEntityID() string
}

// Named exposes a human-readable label for a domain entity.
type Named interface {
	AuditEntityName() string
}

// ExtractEntityID derives a target entity ID from an operation's arguments,
// best effort. Tried in order per argument: the Identifiable capability, a
// bare UUID value, and — only for operations whose name contains "ById" — a
// raw string parameter. Returns "" when nothing matches.
func ExtractEntityID(operation string, args ...any) string {
	byID := strings.Contains(strings.ToLower(operation), "byid")
	for _, arg := range args {
		switch v := arg.(type) {
		case Identifiable:
			if id := v.AuditEntityID(); id != "" {
				return id
			}
		case uuid.UUID:
			if v != uuid.Nil {
				return v.String()
			}
		case *uuid.UUID:
			if v != nil && *v != uuid.Nil {
				return v.String()
			}
		case string:
			if v == "" {
				continue
			}
			if _, err := uuid.Parse(v); err == nil {
				return v
			}
			if byID {
				return v
			}
		}
	}
	return ""
}

// ExtractEntityName derives a target entity name, best effort: arguments are
// scanned for the Named capability first, then the operation result. Returns
// "" when nothing matches.
func ExtractEntityName(result any, args ...any) string {
	for _, arg := range args {
		if named, ok := arg.(Named); ok {
			if name := named.AuditEntityName(); name != "" {
				return name
			}
		}
	}
	if named, ok := result.(Named); ok {
		return named.AuditEntityName()
	}
	return ""
}
