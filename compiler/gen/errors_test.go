package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/layergen/schema"
)

func TestTemplateError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("file does not exist")
		err := NewTemplateError("reader", "templates/reader.tmpl", cause)

		assert.Contains(t, err.Error(), "layergen: missing template reader")
		assert.Contains(t, err.Error(), "file: templates/reader.tmpl")
		assert.Contains(t, err.Error(), "file does not exist")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewTemplateError("reader", "", cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrMissingTemplate", func(t *testing.T) {
		err := NewTemplateError("reader", "", nil)
		assert.True(t, errors.Is(err, ErrMissingTemplate))
		assert.False(t, errors.Is(err, ErrIO))
		assert.True(t, IsTemplateError(err))
		assert.False(t, IsTemplateError(errors.New("other")))
	})
}

func TestIOError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewIOError("write", "Billing/Invoice.cs", cause)

	assert.Contains(t, err.Error(), "layergen: i/o error in write Billing/Invoice.cs")
	assert.Contains(t, err.Error(), "permission denied")
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsIOError(err))
}

func TestUnresolvedError(t *testing.T) {
	err := NewUnresolvedError("reader", []string{"$Foo", "$Bar", "$Foo"})

	assert.Equal(t, []string{"$Bar", "$Foo"}, err.Placeholders)
	assert.Equal(t, "layergen: unresolved placeholders in reader: $Bar, $Foo", err.Error())
	assert.True(t, errors.Is(err, ErrUnresolvedPlaceholder))
	assert.True(t, IsUnresolvedError(err))
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "workers must be positive")

		assert.Contains(t, err.Error(), "layergen: config error")
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "-1")
		assert.Contains(t, err.Error(), "workers must be positive")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Platform", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Platform", nil, "")
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.True(t, IsConfigError(err))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewGenerationError("Billing/Invoices/Invoice", "reader", "Readers/InvoiceReader.cs", cause)

		assert.Contains(t, err.Error(), "on entity Billing/Invoices/Invoice")
		assert.Contains(t, err.Error(), "kind reader")
		assert.Contains(t, err.Error(), "file: Readers/InvoiceReader.cs")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("wraps core errors", func(t *testing.T) {
		meta := schema.NewMetadataError("Billing/Invoices/Invoice", "invoice_id", "key column not found")
		err := NewGenerationError("Billing/Invoices/Invoice", "", "", meta)

		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, errors.Is(err, ErrMetadataInconsistency))
		assert.True(t, IsGenerationError(err))
		var metaErr *schema.MetadataError
		require.True(t, errors.As(err, &metaErr))
		assert.Equal(t, "invoice_id", metaErr.Field)
	})
}
