// Package namespace reconciles the two naming conventions in play: node ports
// use dotted namespaces ("ns.sub.key") while catalog keys use a flattened form
// with a two-character separator ("ns__sub__key").
//
// All functions are pure string transforms with no catalog lookups.
package namespace

import (
	"errors"
	"fmt"
	"strings"
)

// Separator replaces "." in flattened catalog keys.
const Separator = "__"

// ToFlatKey converts a dotted name to catalog key form.
// Identity on names with no ".".
func ToFlatKey(dotted string) string {
	return strings.ReplaceAll(dotted, ".", Separator)
}

// ToDottedName converts a catalog key back to dotted form.
// Used for display and reporting only, never for scope matching.
func ToDottedName(flat string) string {
	return strings.ReplaceAll(flat, Separator, ".")
}

// Resolve maps a node port name to the catalog key it refers to.
// Only ports of namespaced nodes are flattened.
func Resolve(name, nodeNamespace string) string {
	if nodeNamespace == "" {
		return name
	}
	return ToFlatKey(name)
}

// SplitNamespaceAndKey splits a dotted name on its last ".".
// ok is false when the name carries no namespace.
func SplitNamespaceAndKey(dotted string) (ns string, ok bool, key string) {
	idx := strings.LastIndex(dotted, ".")
	if idx <= 0 {
		// A leading "." leaves an empty namespace, which is the same as none.
		if idx == 0 {
			return "", false, dotted[1:]
		}
		return "", false, dotted
	}
	return dotted[:idx], true, dotted[idx+1:]
}

// ErrAmbiguousKey is returned for keys whose flattened and dotted forms do not
// round-trip.
var ErrAmbiguousKey = errors.New("ambiguous namespaced key")

// KeyError reports a catalog key rejected by ValidateKey.
type KeyError struct {
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrAmbiguousKey, e.Key, e.Reason)
}

func (e *KeyError) Unwrap() error {
	return ErrAmbiguousKey
}

// ValidateKey rejects catalog keys that cannot be reconciled unambiguously:
// keys that mix "." with the separator, and keys with an empty namespace
// segment ("__x", "x__", "a____b").
func ValidateKey(key string) error {
	if !strings.Contains(key, Separator) {
		return nil
	}
	if strings.Contains(key, ".") {
		return &KeyError{Key: key, Reason: "mixes dotted and flattened namespace forms"}
	}
	for _, seg := range strings.Split(key, Separator) {
		if seg == "" {
			return &KeyError{Key: key, Reason: "empty namespace segment"}
		}
	}
	return nil
}
