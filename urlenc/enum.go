package urlenc

import "reflect"

// Variant describes one declared value of a closed string enum.
type Variant struct {
	// Name is the exact wire spelling of the variant. Matching is
	// case-sensitive.
	Name string

	// Payload marks a variant that carries associated data. Such a variant
	// cannot travel as a bare name, so decoding or encoding it fails with
	// CodeExpectedUnitVariant.
	Payload bool
}

// Enum is implemented by closed string-enum types. The codec decodes an
// enum field by matching the wire value against the declared variant names
// and encodes one by checking the current value is a declared unit variant.
//
//	type Medium string
//
//	func (Medium) Variants() []urlenc.Variant {
//		return []urlenc.Variant{{Name: "email"}, {Name: "msisdn"}}
//	}
type Enum interface {
	Variants() []Variant
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

// enumVariants returns the declared variants of t if t is an Enum with a
// string underlying type, or nil.
func enumVariants(t reflect.Type) []Variant {
	if t.Kind() != reflect.String {
		return nil
	}
	if t.Implements(enumType) {
		return reflect.Zero(t).Interface().(Enum).Variants()
	}
	if reflect.PointerTo(t).Implements(enumType) {
		return reflect.New(t).Interface().(Enum).Variants()
	}
	return nil
}

// findVariant looks up name among variants.
func findVariant(variants []Variant, name string) (Variant, bool) {
	for _, v := range variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
