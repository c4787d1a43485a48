package idcard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptFamilyFallsBackToCoreFont(t *testing.T) {
	a := &Assets{}
	require.Equal(t, "Helvetica", a.scriptFamily())

	a.FontPath = "/fonts/NotoSansTamil-Regular.ttf"
	a.FontFamily = "NotoSansTamil"
	require.Equal(t, "NotoSansTamil", a.scriptFamily())
}

func TestNeedsScriptFont(t *testing.T) {
	a := &Assets{OrgName: "Pasumai Bharatham", RulesHeading: "Rules"}
	require.False(t, a.needsScriptFont())

	a.RulesHeading = "உறுப்பினர் விதிமுறைகள்"
	require.True(t, a.needsScriptFont())
}
