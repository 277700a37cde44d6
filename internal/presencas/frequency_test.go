package presencas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequency(t *testing.T) {
	tests := []struct {
		name     string
		present  int
		total    int
		expected int
	}{
		{"no classes", 0, 0, 0},
		{"all present", 5, 5, 100},
		{"none present", 0, 4, 0},
		{"two of three rounds up", 2, 3, 67},
		{"one of three rounds down", 1, 3, 33},
		{"half rounds up", 1, 2, 50},
		{"five of eight", 5, 8, 63},
		{"negative total reads zero", 3, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Frequency(tt.present, tt.total))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, BandGood, Classify(100))
	assert.Equal(t, BandGood, Classify(80))
	assert.Equal(t, BandWarning, Classify(79))
	assert.Equal(t, BandWarning, Classify(60))
	assert.Equal(t, BandCritical, Classify(59))
	assert.Equal(t, BandCritical, Classify(0))
}

func TestClassifyCoversWholeRange(t *testing.T) {
	for pct := 0; pct <= 100; pct++ {
		band := Classify(pct)
		switch {
		case pct >= 80:
			assert.Equal(t, BandGood, band, "pct=%d", pct)
		case pct >= 60:
			assert.Equal(t, BandWarning, band, "pct=%d", pct)
		default:
			assert.Equal(t, BandCritical, band, "pct=%d", pct)
		}
	}
}
