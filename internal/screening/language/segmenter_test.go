package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKagomeSegmenter(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the IPA dictionary")
	}
	seg, err := NewKagomeSegmenter()
	require.NoError(t, err)

	parts := seg.Segment("山田太郎")
	assert.GreaterOrEqual(t, len(parts), 2)
	assert.Equal(t, "山田太郎", strings.Join(parts, ""))
}
