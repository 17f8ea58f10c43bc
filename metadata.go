package wirebind

// Metadata is the compiled descriptor of an endpoint: everything transport
// and version-negotiation logic needs that is not tied to the Request or
// Response type. It is created once by Compile and never mutated, so it
// may be shared freely.
type Metadata struct {
	Name        string
	Description string
	Method      string

	// Parsed path templates per stability tier; nil where the spec
	// declared none.
	UnstablePath *Template
	R0Path       *Template
	StablePath   *Template

	Authentication AuthScheme
	RateLimited    bool
	Lifecycle      Lifecycle
}

// Template returns the path template for the given stability tier, or nil
// if the endpoint has none there.
func (m *Metadata) Template(s Stability) *Template {
	switch s {
	case StabilityUnstable:
		return m.UnstablePath
	case StabilityR0:
		return m.R0Path
	case StabilityStable:
		return m.StablePath
	default:
		return nil
	}
}

// templates returns the non-nil templates, most stable first. This is the
// order FromWire tries when matching an incoming path.
func (m *Metadata) templates() []*Template {
	var ts []*Template
	for _, t := range []*Template{m.StablePath, m.R0Path, m.UnstablePath} {
		if t != nil {
			ts = append(ts, t)
		}
	}
	return ts
}
