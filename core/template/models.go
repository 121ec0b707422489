package template

// Format is one file-format candidate for a template artifact.
type Format struct {
	Ext         string
	ContentType string
}

// Formats are probed in priority order: the most preferred, most portable
// format first.
var Formats = []Format{
	{Ext: ".pdf", ContentType: "application/pdf"},
	{Ext: ".doc", ContentType: "application/msword"},
	{Ext: ".docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

// Descriptor is a static catalog entry. The catalog is process-wide
// immutable configuration, not user data.
type Descriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Description string `json:"description,omitempty"`
	BaseName    string `json:"-"`
}

// DefaultCatalog lists the paperwork the administration hands out.
func DefaultCatalog() []Descriptor {
	return []Descriptor{
		{
			ID:          "template-1",
			DisplayName: "External club instructor meeting form + contract",
			Description: "All external instructors submit this every year",
			BaseName:    "meeting_form_contract",
		},
		{
			ID:          "template-2",
			DisplayName: "Instructor data card",
			Description: "New external instructors submit this once",
			BaseName:    "instructor_data_card",
		},
	}
}
