package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovieRating(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    float64
		wantErr bool
	}{
		{"decimal", "9.7", 9.7, false},
		{"surrounding spaces", " 8.5\n", 8.5, false},
		{"integer", "9", 9, false},
		{"empty", "", 0, true},
		{"not a number", "暂无评分", 0, true},
		{"infinity", "Inf", 0, true},
		{"nan", "NaN", 0, true},
		{"hex float", "0x1p3", 0, true},
		{"underscore", "1_0", 0, true},
		{"exponent", "9e0", 0, true},
		{"signed", "+9.1", 0, true},
		{"trailing dot", "9.", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Movie{Title: "x", RatingText: tt.text}.Rating()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
