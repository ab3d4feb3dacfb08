// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package poi

// NotAvailable is the placeholder for a missing name or category.
const NotAvailable = "N/A"

// Categories are the tag keys that are queried and used to classify a record.
// The order is the classification priority: an element tagged with several of
// them takes the first one listed here.
var Categories = []string{
	"amenity",
	"shop",
	"leisure",
	"tourism",
	"historic",
}

// Classify returns the first key of categories present in tags, or
// NotAvailable.
func Classify(tags map[string]string, categories []string) string {
	for _, key := range categories {
		if _, ok := tags[key]; ok {
			return key
		}
	}

	return NotAvailable
}
