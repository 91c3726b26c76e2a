package ir

// Part is one typed piece of a Line.
//
// Like Content, the set of implementations is closed.
type Part interface {
	PartKind() PartKind
	// Text is the part's contribution to the clean text of its line.
	Text() string
	isPart()
}

// TextPart is a run of plain text, whitespace preserved.
type TextPart struct {
	Value string `json:"value"`
}

func (t *TextPart) PartKind() PartKind { return PartText }
func (t *TextPart) Text() string       { return t.Value }
func (*TextPart) isPart()              {}

// PageNumber inside running text contributes no text.
func (p *PageNumber) PartKind() PartKind { return PartPageNumber }
func (p *PageNumber) Text() string       { return "" }
func (*PageNumber) isPart()              {}

// Milestone is a fixed-length segmentation marker.
type Milestone struct {
	Orig string `json:"orig"`
}

func (m *Milestone) PartKind() PartKind { return PartMilestone }
func (m *Milestone) Text() string       { return "" }
func (*Milestone) isPart()              {}

// Hemistich separates the two halves of a verse line.
type Hemistich struct{}

func (h *Hemistich) PartKind() PartKind { return PartHemistich }
func (h *Hemistich) Text() string       { return "" }
func (*Hemistich) isPart()              {}

// Isnad opens the chain of transmission of a riwāyaŧ.
type Isnad struct{}

func (i *Isnad) PartKind() PartKind { return PartIsnad }
func (i *Isnad) Text() string       { return "" }
func (*Isnad) isPart()              {}

// Matn opens the reported content of a riwāyaŧ.
type Matn struct{}

func (m *Matn) PartKind() PartKind { return PartMatn }
func (m *Matn) Text() string       { return "" }
func (*Matn) isPart()              {}

// Hukm opens the juridical ruling of a riwāyaŧ.
type Hukm struct{}

func (h *Hukm) PartKind() PartKind { return PartHukm }
func (h *Hukm) Text() string       { return "" }
func (*Hukm) isPart()              {}

// RouteFrom opens the origin of a route leg.
type RouteFrom struct{}

func (r *RouteFrom) PartKind() PartKind { return PartRouteFrom }
func (r *RouteFrom) Text() string       { return "" }
func (*RouteFrom) isPart()              {}

// RouteTowards opens the destination of a route leg.
type RouteTowards struct{}

func (r *RouteTowards) PartKind() PartKind { return PartRouteTowards }
func (r *RouteTowards) Text() string       { return "" }
func (*RouteTowards) isPart()              {}

// RouteDistance opens the distance of a route leg.
type RouteDistance struct{}

func (r *RouteDistance) PartKind() PartKind { return PartRouteDistance }
func (r *RouteDistance) Text() string       { return "" }
func (*RouteDistance) isPart()              {}

// Date is a year of birth, death or other event. Value holds the captured words.
type Date struct {
	Value  string   `json:"value"`
	Type   DateType `json:"type"`
	Prefix int      `json:"prefix"`
	Extent int      `json:"extent"`
}

func (d *Date) PartKind() PartKind { return PartDate }
func (d *Date) Text() string       { return d.Value }
func (*Date) isPart()              {}

// Age is an age at death. Value holds the captured words.
type Age struct {
	Value  string `json:"value"`
	Prefix int    `json:"prefix"`
	Extent int    `json:"extent"`
}

func (a *Age) PartKind() PartKind { return PartAge }
func (a *Age) Text() string       { return a.Value }
func (*Age) isPart()              {}

// NamedEntity is a topic, person, society or source reference.
//
// Prefix is the number of leading characters to drop from the first word
// (clitics); Extent is the number of words the entity spans. Value holds
// the exact source text of those words.
type NamedEntity struct {
	Value  string     `json:"value"`
	Type   EntityType `json:"type"`
	Prefix int        `json:"prefix"`
	Extent int        `json:"extent"`
}

func (n *NamedEntity) PartKind() PartKind { return PartNamedEntity }
func (n *NamedEntity) Text() string       { return n.Value }
func (*NamedEntity) isPart()              {}

// OpenTagUser is a free-form annotation: @user@type_subtype[_subsubtype]@.
type OpenTagUser struct {
	Orig       string `json:"orig"`
	User       string `json:"user"`
	Type       string `json:"type"`
	Subtype    string `json:"subtype"`
	Subsubtype string `json:"subsubtype,omitempty"`
}

func (o *OpenTagUser) PartKind() PartKind { return PartOpenTagUser }
func (o *OpenTagUser) Text() string       { return "" }
func (*OpenTagUser) isPart()              {}

// OpenTagAuto is a machine-generated annotation: @RES@TYP@CAT@ with an
// optional -@xx@ review code.
type OpenTagAuto struct {
	Orig     string `json:"orig"`
	Resp     string `json:"resp"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Review   string `json:"review,omitempty"`
}

func (o *OpenTagAuto) PartKind() PartKind { return PartOpenTagAuto }
func (o *OpenTagAuto) Text() string       { return "" }
func (*OpenTagAuto) isPart()              {}

// CleanText concatenates the text of parts.
func CleanText(parts []Part) string {
	n := 0
	for _, p := range parts {
		n += len(p.Text())
	}
	b := make([]byte, 0, n)
	for _, p := range parts {
		b = append(b, p.Text()...)
	}
	return string(b)
}
