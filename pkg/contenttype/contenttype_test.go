package contenttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        Category
	}{
		{"application/json", JSON},
		{"application/json; charset=utf-8", JSON},
		{"application/vnd.api+json", JSON},
		{"APPLICATION/JSON", JSON},
		{"text/html; charset=UTF-8", HTML},
		{"application/xhtml+xml", HTML},
		{"application/xml", XML},
		{"text/plain; charset=utf-8", Text},
		{"application/x-gzip", Binary},
		{"application/octet-stream", Binary},
		{"", Binary},
		{"not a media type;;", Binary},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType))
		})
	}
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("text/html"))
	assert.False(t, IsHTML("application/json"))
	assert.False(t, IsHTML(""))
}
