package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ast := assert.New(t)

	r, err := New("", nil)
	ast.ErrorIs(err, ErrNoTemplate)
	ast.Nil(r)

	r, err = New("  ", nil)
	ast.ErrorIs(err, ErrNoTemplate)
	ast.Nil(r)

	r, err = New("http://[::1", nil)
	ast.Error(err)
	ast.Nil(r)

	r, err = New("https://tiles.example.com/{z}/{x}/{y}.png", nil)
	ast.NoError(err)
	ast.Equal("https://tiles.example.com/{z}/{x}/{y}.png", r.Template())
}

func TestDerive(t *testing.T) {
	tt := []struct {
		name     string
		template string
		query    map[string]string
		values   map[string]string
		preserve bool
		exp      string
	}{
		{
			name:     "simple",
			template: "https://t.example.com/{z}/{x}/{y}.png",
			values:   map[string]string{"z": "3", "x": "2", "y": "6"},
			preserve: true,
			exp:      "https://t.example.com/3/2/6.png",
		},
		{
			name:     "unknown placeholder",
			template: "https://{s}.example.com/{z}/{x}/{y}.png",
			values:   map[string]string{"z": "3", "x": "2", "y": "6"},
			preserve: true,
			exp:      "https://{s}.example.com/3/2/6.png",
		},
		{
			name:     "keeps query",
			template: "https://t.example.com/{z}/{x}/{reverseY}.png?token=abc&v=2",
			values:   map[string]string{"z": "3", "x": "2", "reverseY": "6"},
			preserve: true,
			exp:      "https://t.example.com/3/2/6.png?token=abc&v=2",
		},
		{
			name:     "drops query",
			template: "https://t.example.com/{z}/{x}/{y}.png?token=abc",
			values:   map[string]string{"z": "3", "x": "2", "y": "6"},
			preserve: false,
			exp:      "https://t.example.com/3/2/6.png",
		},
		{
			name:     "extra query",
			template: "https://t.example.com/{z}/{x}/{y}.png?token=abc",
			query:    map[string]string{"format": "png", "token": "other"},
			values:   map[string]string{"z": "0", "x": "0", "y": "0"},
			preserve: true,
			exp:      "https://t.example.com/0/0/0.png?token=abc&format=png",
		},
		{
			name:     "placeholder in query",
			template: "https://t.example.com/tile?z={z}&x={x}&y={y}",
			values:   map[string]string{"z": "1", "x": "0", "y": "1"},
			preserve: true,
			exp:      "https://t.example.com/tile?z=1&x=0&y=1",
		},
		{
			name:     "escaped value",
			template: "https://t.example.com/{layer}/{z}.png",
			values:   map[string]string{"layer": "a b", "z": "1"},
			preserve: true,
			exp:      "https://t.example.com/a%20b/1.png",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(tc.template, tc.query)
			require.NoError(t, err)
			u, ok := r.Derive(tc.values, tc.preserve)
			assert.True(t, ok)
			assert.Equal(t, tc.exp, u)
		})
	}
}

func TestDeriveNil(t *testing.T) {
	var r *Resource
	u, ok := r.Derive(map[string]string{"z": "1"}, true)
	assert.False(t, ok)
	assert.Empty(t, u)
	assert.Empty(t, r.Template())
}
