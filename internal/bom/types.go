package bom

// Material is one catalog entry. Stock is carried for the booking layer and never read by rules.
type Material struct {
	ID          string         `json:"id"`
	CategoryID  string         `json:"categoryId"`
	Description string         `json:"description"`
	Unit        string         `json:"unit"`
	Spec        map[string]any `json:"spec,omitempty"`
	Stock       float64        `json:"stock"`
}

// LineItem is a single BOM position.
type LineItem struct {
	MaterialID   string  `json:"materialId"`
	Quantity     float64 `json:"quantity"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	IsConfigured bool    `json:"isConfigured"`
	IsManual     bool    `json:"isManual"`
}

// Result is the output of one derivation.
type Result struct {
	BOM      []LineItem `json:"bom"`
	Warnings []string   `json:"warnings"`
}

// Rule encapsulates one part of the derivation (e.g. "end clamps", "dc cable").
type Rule interface {
	// Name returns the unique name of this rule.
	Name() string
	// Apply reads the input and appends raw line items or warnings to the sink.
	Apply(in *Input, out *Sink)
}

// Input is everything a rule may read. Rules must treat it as read-only.
type Input struct {
	Configuration Configuration
	Totals        LayoutTotals
	Catalog       *Catalog
	Defaults      Defaults
	// Chosen holds the recommendations after overrides were merged in.
	Chosen Recommendations
}

// Sink collects raw rule output in order.
type Sink struct {
	catalog  *Catalog
	items    []LineItem
	warnings []string
}

// NewSink returns a sink resolving descriptions against catalog.
func NewSink(catalog *Catalog) *Sink {
	return &Sink{catalog: catalog}
}

// Add appends a raw line item. References missing from the catalog, empty ids and
// non-positive quantities contribute nothing.
func (s *Sink) Add(materialID string, quantity float64, category string) {
	s.add(materialID, quantity, category, false)
}

// AddConfigured appends a raw line item that the operator selected explicitly.
func (s *Sink) AddConfigured(materialID string, quantity float64, category string) {
	s.add(materialID, quantity, category, true)
}

// Warn appends a validation warning.
func (s *Sink) Warn(warning string) {
	s.warnings = append(s.warnings, warning)
}

// Items returns the raw line items collected so far.
func (s *Sink) Items() []LineItem {
	return s.items
}

// Warnings returns the warnings collected so far.
func (s *Sink) Warnings() []string {
	return s.warnings
}

func (s *Sink) add(materialID string, quantity float64, category string, configured bool) {
	if materialID == "" || !(quantity > 0) {
		return
	}
	m, ok := s.catalog.ByID(materialID)
	if !ok {
		return
	}
	s.items = append(s.items, LineItem{
		MaterialID:   materialID,
		Quantity:     quantity,
		Description:  m.Description,
		Category:     category,
		IsConfigured: configured,
	})
}
