// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kaiwa/pkg/slug"
)

/*
TestFrom tests the slug transformation pipeline against a variety of inputs.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Weekend Hiking Club", "weekend-hiking-club"},
		{"accents", "Café Lounge", "cafe-lounge"},
		{"punctuation", "What's up?!", "what-s-up"},
		{"multi_space", "a   b", "a-b"},
		{"leading_trailing", "  --hello--  ", "hello"},
		{"numbers", "Room 42", "room-42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
