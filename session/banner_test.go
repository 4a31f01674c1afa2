package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBannerText(t *testing.T) {
	require.Equal(t, "Found 3 in the tree!", Banner{Found: true, Value: 3}.Text())
	require.Equal(t, "Found -4 in the tree! (Tree structure updated)",
		Banner{Found: true, Value: -4, TreeModified: true}.Text())
	require.Equal(t, "Value 99 not found in the tree.", Banner{Value: 99}.Text())
	// Modification is only reported for hits.
	require.Equal(t, "Value 0 not found in the tree.", Banner{TreeModified: true}.Text())
}
