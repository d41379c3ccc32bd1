package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRenderer_SingleRoot(t *testing.T) {
	el, err := HTMLRenderer{}.Render(`  <div class="marker-cluster"><span>12</span></div>
`)
	require.NoError(t, err)
	assert.Equal(t, "div", el.Tag())

	class, ok := el.Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "marker-cluster", class)
	assert.Equal(t, `<div class="marker-cluster"><span>12</span></div>`, el.String())

	_, ok = el.Attr("id")
	assert.False(t, ok)
}

func TestHTMLRenderer_CommentAllowed(t *testing.T) {
	el, err := HTMLRenderer{}.Render(`<!-- badge --><b>3</b>`)
	require.NoError(t, err)
	assert.Equal(t, "b", el.Tag())
}

func TestHTMLRenderer_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"empty", ""},
		{"whitespace only", "   \n"},
		{"text only", "12 points"},
		{"two roots", "<div>a</div><div>b</div>"},
		{"text beside root", "<div>a</div> trailing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HTMLRenderer{}.Render(tt.markup)
			if !errors.Is(err, ErrMalformedMarkerContent) {
				t.Errorf("expected ErrMalformedMarkerContent, got %v", err)
			}
		})
	}
}
