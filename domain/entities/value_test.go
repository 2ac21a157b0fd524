package entities_test

import (
	"testing"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestValue_Kinds(t *testing.T) {
	tests := []struct {
		name    string
		value   entities.Value
		kind    entities.ValueKind
		native  any
		display string
	}{
		{"null", entities.Null(), entities.KindNull, nil, "null"},
		{"zero value is null", entities.Value{}, entities.KindNull, nil, "null"},
		{"string", entities.String("Alfons"), entities.KindString, "Alfons", `"Alfons"`},
		{"bool", entities.Bool(true), entities.KindBool, true, "true"},
		{"int", entities.Int(42), entities.KindNumber, int64(42), "42"},
		{"float", entities.Float(1.5), entities.KindNumber, 1.5, "1.5"},
		{"literal keeps text", entities.Number("1.50"), entities.KindNumber, 1.5, "1.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.native, tt.value.Interface())
			assert.Equal(t, tt.display, tt.value.GoString())
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	s, ok := entities.String("x").Str()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = entities.Int(1).Str()
	assert.False(t, ok)

	lit, ok := entities.Number("1e3").Literal()
	assert.True(t, ok)
	assert.Equal(t, "1e3", lit)

	_, ok = entities.Number("1e3").Int64()
	assert.False(t, ok)

	f, ok := entities.Number("1e3").Float64()
	assert.True(t, ok)
	assert.Equal(t, 1000.0, f)

	b, ok := entities.Bool(false).Boolean()
	assert.True(t, ok)
	assert.False(t, b)

	assert.True(t, entities.Null().IsNull())
	assert.False(t, entities.String("").IsNull())
}

func TestAttributeValue_Equality(t *testing.T) {
	a := entities.Attr("firstName", "Alfons")
	b := entities.Attr("firstName", "Alfons")
	c := entities.Attr("firstName", "Amalia")

	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.False(t, a == c)

	set := map[entities.AttributeValue]struct{}{a: {}}
	_, found := set[b]
	assert.True(t, found)

	_, err := entities.NewAttributeValue("", entities.Null())
	assert.ErrorIs(t, err, entities.ErrEmptyID)

	assert.Panics(t, func() { entities.Attr("", "x") })
}
