package glossary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		in         string
		key, value string
		ok         bool
	}{
		{"P: It is raining", "P", "It is raining", true},
		{"  D :  aggregate demand ", "D", "aggregate demand", true},
		{"T: time: in seconds", "T", "time: in seconds", true},
		{"no colon", "", "", false},
		{": empty key", "", "", false},
		{"K:   ", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		k, v, ok := ParseDefinition(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.key, k, tt.in)
		assert.Equal(t, tt.value, v, tt.in)
	}
}

func TestDefinitions_OrderAndUpdate(t *testing.T) {
	d := NewDefinitions()
	assert.True(t, d.Define("P: rain"))
	assert.True(t, d.Define("Q: wet streets"))
	assert.False(t, d.Define("garbage"))
	d.Set("P", "heavy rain")

	assert.Equal(t, []Definition{
		{Key: "P", Value: "heavy rain"},
		{Key: "Q", Value: "wet streets"},
	}, d.Entries())
	assert.Equal(t, 2, d.Len())

	v, ok := d.Get("Q")
	assert.True(t, ok)
	assert.Equal(t, "wet streets", v)
}

func TestDefinitions_Remove(t *testing.T) {
	d := NewDefinitions()
	d.Set("A", "1")
	d.Set("B", "2")
	d.Set("C", "3")

	assert.True(t, d.Remove("B"))
	assert.False(t, d.Remove("B"))
	assert.Equal(t, []Definition{{Key: "A", Value: "1"}, {Key: "C", Value: "3"}}, d.Entries())

	d.Set("B", "again")
	assert.Equal(t, "B", d.Entries()[2].Key)
}

func TestDefinitions_EmptyEntriesNotNil(t *testing.T) {
	d := NewDefinitions()
	assert.NotNil(t, d.Entries())
	assert.Equal(t, 0, d.Len())
}
