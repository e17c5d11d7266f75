package transform

import (
	"fmt"

	"docmapper/internal/match"
)

// Kind identifies a transform.
type Kind int

const (
	_ Kind = iota // zero value is invalid so an unset rule is detected

	Copy
	ToString
	ToBool
	ToUpperCase
	ToLowerCase
	Capitalize
	FormatDate
	MapGender
	Expression

	// KindTotal is the number of valid kinds plus the invalid zero value.
	KindTotal = int(iota)
)

var kindNames = [KindTotal]string{
	Copy:        "copy",
	ToString:    "toString",
	ToBool:      "toBool",
	ToUpperCase: "toUpperCase",
	ToLowerCase: "toLowerCase",
	Capitalize:  "capitalize",
	FormatDate:  "formatDate",
	MapGender:   "mapGender",
	Expression:  "expression",
}

// Names returns the text form of every valid kind.
func Names() []string {
	return kindNames[1:]
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

// IsCatalog reports whether k is handled by Apply.
func (k Kind) IsCatalog() bool {
	return k.IsValid() && k != Expression
}

func (k Kind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind returns the kind with the given name. Names are case sensitive;
// the error of a near miss carries suggestions.
func ParseKind(name string) (Kind, error) {
	for k := Copy; int(k) < KindTotal; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}

	return 0, &UnknownKindError{Name: name, Suggestions: match.Suggest(name, Names(), 2)}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("transform: cannot marshal invalid kind %d", int(k))
	}

	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}
