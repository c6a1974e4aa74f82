package notion

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/errors"
)

// SkippedProperty records one field that could not be written, with the
// attempted value and the reason. Skips are reported per record instead
// of aborting the operation.
type SkippedProperty struct {
	Name   string
	Value  interface{}
	Reason string
}

// UpsertResult describes what an upsert did.
type UpsertResult struct {
	PageID  string
	Created bool
	Written []string
	Skipped []SkippedProperty
}

// Upsert writes data into the database keyed on keyProperty. When a row
// whose key property equals the incoming key value already exists, the
// first match is patched with only the mapped fields; otherwise a new
// row is created. Fields absent from the schema or failing formatting
// land in the skip report. Partial success is the policy.
func (c *Client) Upsert(ctx context.Context, db *Database, schema Schema, keyProperty string, data map[string]interface{}) (*UpsertResult, error) {
	keyKind, ok := schema.Kind(keyProperty)
	if !ok {
		return nil, errors.New(errors.ErrorTypeValidation, "key property not found in database").
			WithDetail("property", keyProperty).
			WithDetail("available", schema.PropertyNames())
	}

	rawKey, ok := data[keyProperty]
	if !ok {
		return nil, errors.New(errors.ErrorTypeValidation, "key property missing from incoming data").
			WithDetail("property", keyProperty)
	}
	keyValue := stringify(rawKey)

	result := &UpsertResult{}

	properties := make(map[string]PropertyValue, len(data))
	for name, value := range data {
		kind, ok := schema.Kind(name)
		if !ok {
			result.Skipped = append(result.Skipped, SkippedProperty{
				Name:   name,
				Value:  value,
				Reason: "property not found in database",
			})
			continue
		}

		formatted, err := FormatValue(kind, value)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedProperty{
				Name:   name,
				Value:  value,
				Reason: err.Error(),
			})
			continue
		}

		properties[name] = formatted
		result.Written = append(result.Written, name)
	}

	for _, skip := range result.Skipped {
		c.logger.Warn("skipping property",
			zap.String("property", skip.Name),
			zap.Any("value", skip.Value),
			zap.String("reason", skip.Reason))
	}

	existingID, err := c.findByKey(ctx, db.ID, keyProperty, keyKind, keyValue)
	if err != nil {
		return nil, err
	}

	if existingID != "" {
		if _, err := c.UpdatePage(ctx, existingID, properties); err != nil {
			return nil, err
		}
		result.PageID = existingID
		c.logger.Info("updated existing page",
			zap.String("page_id", existingID),
			zap.String("key", keyValue))
		return result, nil
	}

	page, err := c.CreatePage(ctx, db.ID, properties)
	if err != nil {
		return nil, err
	}
	result.PageID = page.ID
	result.Created = true
	c.logger.Info("created new page",
		zap.String("page_id", page.ID),
		zap.String("key", keyValue))
	return result, nil
}

// findByKey returns the ID of the first page whose key property matches
// keyValue case-sensitively, or "" when no match exists. Duplicate keys
// are not handled, first match wins.
func (c *Client) findByKey(ctx context.Context, databaseID, property string, kind PropertyKind, keyValue string) (string, error) {
	pages, err := c.QueryByProperty(ctx, databaseID, property, kind, keyValue)
	if err != nil {
		return "", err
	}

	for i := range pages {
		extracted, ok := PlainText(kind, pages[i].Properties[property])
		if ok && extracted == keyValue {
			return pages[i].ID, nil
		}
	}

	return "", nil
}
