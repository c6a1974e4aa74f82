package notion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ajitpratap0/pagesync/pkg/errors"
)

// PropertyKind represents the declared type of a database property
type PropertyKind string

const (
	KindTitle       PropertyKind = "title"
	KindRichText    PropertyKind = "rich_text"
	KindNumber      PropertyKind = "number"
	KindCheckbox    PropertyKind = "checkbox"
	KindSelect      PropertyKind = "select"
	KindMultiSelect PropertyKind = "multi_select"
	KindURL         PropertyKind = "url"
	KindEmail       PropertyKind = "email"
	KindPhoneNumber PropertyKind = "phone_number"
	KindFiles       PropertyKind = "files"
	KindFormula     PropertyKind = "formula"
	KindDate        PropertyKind = "date"
	KindUnknown     PropertyKind = "unknown"
)

// KindFromWire maps a declared type string from the API to a PropertyKind.
// Types outside the closed set collapse to KindUnknown.
func KindFromWire(wire string) PropertyKind {
	switch k := PropertyKind(wire); k {
	case KindTitle, KindRichText, KindNumber, KindCheckbox, KindSelect,
		KindMultiSelect, KindURL, KindEmail, KindPhoneNumber, KindFiles,
		KindFormula, KindDate:
		return k
	default:
		return KindUnknown
	}
}

// PlainText extracts a plain string from a property value given its
// declared kind. The second return is false when the property holds no
// extractable value; no error is ever raised, absence is silent.
func PlainText(kind PropertyKind, v PropertyValue) (string, bool) {
	switch kind {
	case KindTitle:
		return firstRun(v.Title)
	case KindRichText:
		return firstRun(v.RichText)
	case KindNumber:
		if v.Number != nil {
			return formatNumber(*v.Number), true
		}
	case KindFormula:
		return formulaText(v.Formula)
	}
	return "", false
}

func firstRun(runs []RichText) (string, bool) {
	if len(runs) == 0 {
		return "", false
	}
	if text := runs[0].PlainText; text != "" {
		return text, true
	}
	if runs[0].Text != nil && runs[0].Text.Content != "" {
		return runs[0].Text.Content, true
	}
	return "", false
}

func formulaText(f *Formula) (string, bool) {
	if f == nil {
		return "", false
	}
	switch f.Type {
	case "string":
		if f.String != nil {
			return *f.String, true
		}
	case "number":
		if f.Number != nil {
			return formatNumber(*f.Number), true
		}
	case "boolean":
		if f.Boolean != nil {
			return strconv.FormatBool(*f.Boolean), true
		}
	case "date":
		if f.Date != nil && f.Date.Start != "" {
			return f.Date.Start, true
		}
	}
	return "", false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatValue maps an arbitrary value to the wire representation required
// by the target kind. A data error with the coercion reason is returned
// when the value cannot be represented; callers surface it in the skip
// report rather than aborting.
func FormatValue(kind PropertyKind, value interface{}) (PropertyValue, error) {
	switch kind {
	case KindTitle:
		return PropertyValue{Title: textRuns(stringify(value))}, nil

	case KindRichText:
		return PropertyValue{RichText: textRuns(stringify(value))}, nil

	case KindNumber:
		n, ok := toNumber(value)
		if !ok {
			return PropertyValue{}, errors.New(errors.ErrorTypeData,
				fmt.Sprintf("cannot convert %q to number", stringify(value)))
		}
		return PropertyValue{Number: &n}, nil

	case KindCheckbox:
		b, ok := toBool(value)
		if !ok {
			return PropertyValue{}, errors.New(errors.ErrorTypeData,
				fmt.Sprintf("cannot convert %q to checkbox", stringify(value)))
		}
		return PropertyValue{Checkbox: &b}, nil

	case KindSelect:
		// No validation against the configured options, Notion creates
		// missing ones on write
		return PropertyValue{Select: &SelectOption{Name: stringify(value)}}, nil

	case KindMultiSelect:
		return PropertyValue{MultiSelect: selectOptions(value)}, nil

	case KindURL:
		s := stringify(value)
		return PropertyValue{URL: &s}, nil

	case KindEmail:
		s := stringify(value)
		return PropertyValue{Email: &s}, nil

	case KindPhoneNumber:
		s := stringify(value)
		return PropertyValue{PhoneNumber: &s}, nil

	default:
		return PropertyValue{}, errors.New(errors.ErrorTypeData,
			fmt.Sprintf("unsupported property type %q", kind))
	}
}

// ExternalFileValue builds a files property holding one external URL.
// Files are written only through this helper; FormatValue rejects the
// kind because a bare value has no display name to attach.
func ExternalFileValue(name, url string) PropertyValue {
	return PropertyValue{
		Files: []File{{
			Name:     name,
			Type:     "external",
			External: &ExternalFile{URL: url},
		}},
	}
}

func textRuns(content string) []RichText {
	return []RichText{{
		Type: "text",
		Text: &TextContent{Content: content},
	}}
}

func selectOptions(value interface{}) []SelectOption {
	switch list := value.(type) {
	case []interface{}:
		opts := make([]SelectOption, 0, len(list))
		for _, item := range list {
			opts = append(opts, SelectOption{Name: stringify(item)})
		}
		return opts
	case []string:
		opts := make([]SelectOption, 0, len(list))
		for _, item := range list {
			opts = append(opts, SelectOption{Name: item})
		}
		return opts
	default:
		return []SelectOption{{Name: stringify(value)}}
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	case float64:
		if v == 1 {
			return true, true
		}
		if v == 0 {
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}
