package scorecarddomain

// Defaults applied to fields the scanner could not read.
const (
	DefaultRating = 72.0
	DefaultSlope  = 113
	DefaultGross  = 0
	DefaultCourse = "Unknown Course"
)

// Extraction holds the fields found in recognized scorecard text. A nil field
// was not found. Raw is the recognized text, unchanged.
type Extraction struct {
	Gross  *int     `json:"gross,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Slope  *int     `json:"slope,omitempty"`
	Course *string  `json:"course,omitempty"`
	Raw    string   `json:"ocrRaw"`
}

// Form is an extraction with every field filled, ready to prefill the round form.
type Form struct {
	Course string  `json:"course"`
	Rating float64 `json:"rating"`
	Slope  int     `json:"slope"`
	Gross  int     `json:"gross"`
	OCRRaw string  `json:"ocrRaw"`
}

// WithDefaults fills missing fields with the defaults.
func (e Extraction) WithDefaults() Form {
	f := Form{
		Course: DefaultCourse,
		Rating: DefaultRating,
		Slope:  DefaultSlope,
		Gross:  DefaultGross,
		OCRRaw: e.Raw,
	}
	if e.Course != nil {
		f.Course = *e.Course
	}
	if e.Rating != nil {
		f.Rating = *e.Rating
	}
	if e.Slope != nil {
		f.Slope = *e.Slope
	}
	if e.Gross != nil {
		f.Gross = *e.Gross
	}
	return f
}

// Found lists the names of the fields that were read.
func (e Extraction) Found() []string {
	var found []string
	if e.Gross != nil {
		found = append(found, "gross")
	}
	if e.Rating != nil {
		found = append(found, "rating")
	}
	if e.Slope != nil {
		found = append(found, "slope")
	}
	if e.Course != nil {
		found = append(found, "course")
	}
	return found
}
