// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package poi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterByName(t *testing.T) {
	records := []Record{
		{Name: "Café Brasilero", Category: "amenity"},
		{Name: "Panadería La Pasiva", Category: "shop"},
		{Name: NotAvailable, Category: "leisure"},
		{Name: "Cafe Misterio", Category: "amenity"},
	}

	got := FilterByName(records, "CAFÉ")
	assert.Equal(t, []Record{records[0], records[3]}, got)

	assert.Equal(t, records, FilterByName(records, ""))
	assert.Empty(t, FilterByName(records, "museo"))
}
