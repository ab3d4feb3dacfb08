// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package poi

import (
	"github.com/jcodagnone/pois/utils/textutils"
)

// FilterByName keeps the records whose name contains term, ignoring case and
// accents. An empty term keeps everything.
func FilterByName(records []Record, term string) []Record {
	filtered := make([]Record, 0, len(records))

	for _, r := range records {
		if textutils.ContainsFolded(r.Name, term) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}
