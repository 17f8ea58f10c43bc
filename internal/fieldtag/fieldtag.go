// Package fieldtag parses the `wire` struct tag that declares where a
// field travels on the wire.
//
// The tag grammar is a placement name followed by comma-separated options:
//
//	wire:"query"
//	wire:"query,name=client_secret"
//	wire:"querymap"
//	wire:"path,name=medium"
//	wire:"header,name=Authorization"
//	wire:"rawbody"
//	wire:"-"
//
// An absent tag means the field travels in the structured body. The header
// placement requires a name option, since header names do not follow the
// snake_case convention of query and path names.
package fieldtag

import (
	"fmt"
	"strings"
)

// Placement says where a field's value travels on the wire.
type Placement int

const (
	// Body fields are serialized together as the structured payload.
	Body Placement = iota
	// Query fields travel as individual query-string entries.
	Query
	// QueryMap fields capture all query entries not bound to a Query field.
	QueryMap
	// Path fields substitute into a same-named path template placeholder.
	Path
	// Header fields travel as HTTP headers under their declared name.
	Header
	// RawBody fields carry the payload bytes verbatim.
	RawBody
	// Ignored fields do not travel at all.
	Ignored
)

func (p Placement) String() string {
	switch p {
	case Body:
		return "body"
	case Query:
		return "query"
	case QueryMap:
		return "querymap"
	case Path:
		return "path"
	case Header:
		return "header"
	case RawBody:
		return "rawbody"
	case Ignored:
		return "-"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

// Tag is a parsed `wire` tag.
type Tag struct {
	Placement Placement

	// Name overrides the default wire name of the field. For Header it is
	// the header name and always set.
	Name string
}

// Parse parses the value of a `wire` struct tag. An empty value yields the
// Body default.
func Parse(value string) (Tag, error) {
	if value == "" {
		return Tag{Placement: Body}, nil
	}
	if value == "-" {
		return Tag{Placement: Ignored}, nil
	}

	head, rest, hasOpts := strings.Cut(value, ",")
	var tag Tag
	switch head {
	case "body":
		tag.Placement = Body
	case "query":
		tag.Placement = Query
	case "querymap":
		tag.Placement = QueryMap
	case "path":
		tag.Placement = Path
	case "header":
		tag.Placement = Header
	case "rawbody":
		tag.Placement = RawBody
	default:
		return Tag{}, fmt.Errorf("unknown placement %q", head)
	}

	if hasOpts {
		for opt := range strings.SplitSeq(rest, ",") {
			key, val, hasVal := strings.Cut(opt, "=")
			switch key {
			case "name":
				if !hasVal || val == "" {
					return Tag{}, fmt.Errorf("option name requires a value")
				}
				tag.Name = val
			default:
				return Tag{}, fmt.Errorf("unknown option %q", opt)
			}
		}
	}

	switch tag.Placement {
	case Header:
		if tag.Name == "" {
			return Tag{}, fmt.Errorf("header placement requires name=")
		}
	case QueryMap, RawBody:
		if tag.Name != "" {
			return Tag{}, fmt.Errorf("%s placement does not take a name", tag.Placement)
		}
	}

	return tag, nil
}
