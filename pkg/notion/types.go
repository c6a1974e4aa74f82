// Package notion implements the Notion API surface pagesync depends on:
// database lookup by name, schema introspection, filtered and paginated
// page queries, page creation and partial patching, and the typed
// property reader/writer used to move values between API JSON and the
// database's declared schema.
package notion

// RichText is one run of text in a title or rich_text property.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent is the writable payload of a text run.
type TextContent struct {
	Content string `json:"content"`
}

// SelectOption names one tag in a select or multi_select property.
type SelectOption struct {
	Name string `json:"name"`
}

// File is one attachment in a files property. pagesync only ever writes
// external files; the required display name carries attribution.
type File struct {
	Name     string        `json:"name,omitempty"`
	Type     string        `json:"type,omitempty"`
	External *ExternalFile `json:"external,omitempty"`
}

// ExternalFile points at an image hosted outside Notion.
type ExternalFile struct {
	URL string `json:"url"`
}

// Date is the start of a date value. End and time zone are not used here.
type Date struct {
	Start string `json:"start,omitempty"`
}

// Formula is the computed result of a formula property. Exactly one of
// the value fields is set, indicated by Type.
type Formula struct {
	Type    string   `json:"type,omitempty"`
	String  *string  `json:"string,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	Boolean *bool    `json:"boolean,omitempty"`
	Date    *Date    `json:"date,omitempty"`
}

// PropertyValue is the wire representation of one property on a page.
// It is a union; the populated field matches the property's kind.
type PropertyValue struct {
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Email       *string        `json:"email,omitempty"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	Files       []File         `json:"files,omitempty"`
	Formula     *Formula       `json:"formula,omitempty"`
	Date        *Date          `json:"date,omitempty"`
}

// Page is one row of a database.
type Page struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

// Title returns the plain text of the page's title property, or fallback
// when the page has no title set.
func (p *Page) Title(fallback string) string {
	for _, prop := range p.Properties {
		if len(prop.Title) > 0 {
			if text := prop.Title[0].PlainText; text != "" {
				return text
			}
		}
	}
	return fallback
}

// PropertySchema is one column definition in a database schema.
type PropertySchema struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
}

// Database is the schema-bearing description of one collection.
type Database struct {
	ID         string                    `json:"id"`
	Title      []RichText                `json:"title,omitempty"`
	Properties map[string]PropertySchema `json:"properties,omitempty"`
}

// Name returns the database's display title.
func (d *Database) Name() string {
	if len(d.Title) > 0 {
		return d.Title[0].PlainText
	}
	return ""
}
