package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/layergen/schema"
)

func TestKeyColumns(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"invoice_id", []string{"invoice_id"}},
		{"invoice_id, line_no", []string{"invoice_id", "line_no"}},
		{" a ,, b ,", []string{"a", "b"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.Entity{StorageKey: tt.key}.KeyColumns())
		})
	}
}

func TestParseStorageStructure(t *testing.T) {
	for in, want := range map[string]schema.StorageStructure{
		"Table":       schema.Table,
		"view":        schema.View,
		"PROCEDURE":   schema.Procedure,
		" projection": schema.Projection,
	} {
		got, err := schema.ParseStorageStructure(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := schema.ParseStorageStructure("synonym")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrMetadataInconsistency))
	assert.True(t, schema.IsMetadataError(err))
	assert.Contains(t, err.Error(), "synonym")
}

func TestParseComponentType(t *testing.T) {
	got, err := schema.ParseComponentType("plugin")
	require.NoError(t, err)
	assert.Equal(t, schema.Plugin, got)
	assert.Equal(t, "Plugin", got.String())

	_, err = schema.ParseComponentType("service")
	assert.ErrorIs(t, err, schema.ErrMetadataInconsistency)
}

func TestTextMarshaling(t *testing.T) {
	b, err := schema.View.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "View", string(b))

	var s schema.StorageStructure
	require.NoError(t, s.UnmarshalText([]byte("projection")))
	assert.Equal(t, schema.Projection, s)
	require.NoError(t, s.UnmarshalText(nil))
	assert.Zero(t, s)

	var c schema.ComponentType
	b, err = c.MarshalText()
	require.NoError(t, err)
	assert.Empty(t, b)
	require.NoError(t, c.UnmarshalText([]byte("utility")))
	assert.Equal(t, schema.Utility, c)
}

func TestEntity(t *testing.T) {
	e := schema.Entity{
		Component:     "Billing",
		Feature:       "Invoices",
		Name:          "Invoice",
		Structure:     schema.Table,
		StorageSchema: "billing",
		StorageTable:  "invoice",
		StorageKey:    "invoice_id",
	}
	require.NoError(t, e.Validate())
	assert.True(t, e.Writable())
	assert.Equal(t, "billing.invoice", e.QualifiedTable())
	assert.Equal(t, "Billing/Invoices/Invoice", e.String())

	for _, s := range []schema.StorageStructure{schema.View, schema.Procedure, schema.Projection} {
		e := e
		e.Structure = s
		assert.False(t, e.Writable(), s.String())
	}

	e.StorageSchema = ""
	assert.Equal(t, "invoice", e.QualifiedTable())

	t.Run("invalid", func(t *testing.T) {
		tests := map[string]func(*schema.Entity){
			"component_name":    func(e *schema.Entity) { e.Component = "" },
			"component_feature": func(e *schema.Entity) { e.Feature = "" },
			"storage_key":       func(e *schema.Entity) { e.StorageKey = " , " },
			"entity_name":       func(e *schema.Entity) { e.Name = "" },
			"storage_table":     func(e *schema.Entity) { e.StorageTable = "" },
			"storage_structure": func(e *schema.Entity) { e.Structure = 0 },
		}
		for field, mutate := range tests {
			t.Run(field, func(t *testing.T) {
				bad := e
				mutate(&bad)
				err := bad.Validate()
				require.Error(t, err)
				var metaErr *schema.MetadataError
				require.True(t, errors.As(err, &metaErr))
				assert.Equal(t, field, metaErr.Field)
			})
		}
	})
}
