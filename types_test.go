package vdisk_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sagarc03/vdisk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTableName(t *testing.T) {
	tests := []struct {
		name  string
		table string
		valid bool
	}{
		{name: "simple", table: "downloads", valid: true},
		{name: "underscores", table: "vdisk_downloads", valid: true},
		{name: "leading underscore", table: "_downloads", valid: true},
		{name: "digits", table: "downloads2", valid: true},
		{name: "leading digit", table: "2downloads", valid: false},
		{name: "uppercase", table: "Downloads", valid: false},
		{name: "dash", table: "vdisk-downloads", valid: false},
		{name: "injection", table: "downloads; DROP TABLE x", valid: false},
		{name: "empty", table: "", valid: false},
		{name: "max length", table: strings.Repeat("a", 63), valid: true},
		{name: "too long", table: strings.Repeat("a", 64), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, vdisk.IsValidTableName(tt.table))
		})
	}
}

func TestTables_Validate(t *testing.T) {
	assert.NoError(t, vdisk.Tables{Downloads: "vdisk_downloads"}.Validate())

	err := vdisk.Tables{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = vdisk.Tables{Downloads: "Bad-Name"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid downloads table name")
}

func TestListing_JSON(t *testing.T) {
	b, err := json.Marshal(vdisk.Listing{Disk: "Vid", URLs: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"disk":"Vid","urls":[]}`, string(b))
}
