// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package poi

import (
	"fmt"
	"strings"
	"time"

	"github.com/jcodagnone/pois/spatial"
)

// QueryTimeout is the server-side limit embedded in every query.
const QueryTimeout = 30 * time.Second

// geometry kinds queried for each category.
var elementKinds = []string{"node", "way", "relation"}

// BuildQuery returns the Overpass QL that selects every node, way and relation
// inside bbox carrying one of the categories keys. Ways and relations are
// returned with their computed center, and every element with its full tag set.
func BuildQuery(bbox spatial.BoundingBox, categories []string, timeout time.Duration) string {
	box := bbox.String()

	var sb strings.Builder

	fmt.Fprintf(&sb, "[out:json][timeout:%d];\n(\n", int(timeout.Seconds()))

	for _, key := range categories {
		for _, kind := range elementKinds {
			fmt.Fprintf(&sb, "  %s[%q](%s);\n", kind, key, box)
		}
	}

	sb.WriteString(");\nout center tags;")

	return sb.String()
}
