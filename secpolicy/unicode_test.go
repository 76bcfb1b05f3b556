package secpolicy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanUnicode_BiDiControl(t *testing.T) {
	out := ScanUnicode("hello ‮world", 4096)
	assert.True(t, out.HasBiDi)
}

func TestScanUnicode_Confusable(t *testing.T) {
	out := ScanUnicode("pаypal.com", 4096) // Cyrillic 'а' look-alike
	assert.True(t, out.HasConfusables)
}

func TestScanUnicode_CleanText(t *testing.T) {
	out := ScanUnicode("just plain ascii text", 4096)
	assert.False(t, out.HasBiDi)
	assert.False(t, out.HasConfusables)
	assert.False(t, out.ScanLimitExceeded)
}

func TestScanUnicode_FailClosedOverSizeCeiling(t *testing.T) {
	big := "# Test\n" + strings.Repeat("A", 110000)
	out := ScanUnicode(big, 4096)
	assert.True(t, out.ScanLimitExceeded)
	assert.True(t, out.HasBiDi)
	assert.True(t, out.HasConfusables)
}
