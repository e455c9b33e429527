package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsAuthorShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *Author
	}{
		{name: "populated", body: `{"author":{"_id":"u1","name":"Ada"}}`, want: &Author{ID: "u1", Name: "Ada"}},
		{name: "bare id", body: `{"author":"u1"}`, want: &Author{ID: "u1"}},
		{name: "null", body: `{"author":null}`},
		{name: "missing", body: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n News
			require.NoError(t, json.Unmarshal([]byte(tt.body), &n))
			assert.Equal(t, tt.want, n.Author)
		})
	}
}

func TestNewsPublishedAt(t *testing.T) {
	var n News
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"n1","publishedAt":"2024-05-01T10:00:00.000Z"}`), &n))
	require.NotNil(t, n.PublishedAt)
	assert.True(t, n.PublishedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}
