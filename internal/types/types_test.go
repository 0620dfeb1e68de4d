package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesTickerPrefix(t *testing.T) {
	tests := []struct {
		name    string
		secCode string
		ticker  string
		want    bool
	}{
		{"five digit code matches four digit ticker", "91101", "9110", true},
		{"exact four digit code matches", "9110", "9110", true},
		{"different code does not match", "9111", "9110", false},
		{"leading zeros are preserved", "01230", "0123", true},
		{"short code never matches", "911", "9110", false},
		{"empty code never matches", "", "9110", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FilingDescriptor{SecCode: tt.secCode}
			assert.Equal(t, tt.want, f.MatchesTicker(tt.ticker))
		})
	}
}

func TestFilingPredicates(t *testing.T) {
	f := FilingDescriptor{
		SecCode:          "91101",
		PDFFlag:          "1",
		WithdrawalStatus: "",
		DocDescription:   "有価証券報告書－第99期",
	}

	assert.True(t, f.HasPDF())
	assert.False(t, f.Withdrawn())
	assert.False(t, f.IsCorrection())

	f.PDFFlag = "0"
	assert.False(t, f.HasPDF())

	f.WithdrawalStatus = "1"
	assert.True(t, f.Withdrawn())

	f.DocDescription = "訂正有価証券報告書－第99期"
	assert.True(t, f.IsCorrection())
}

func TestNewTargetCriteriaDocTypes(t *testing.T) {
	withSemi := NewTargetCriteria("9110", 90, true)
	assert.True(t, withSemi.AllowsDocType(DocTypeAnnualReport))
	assert.True(t, withSemi.AllowsDocType(DocTypeQuarterlyReport))
	assert.True(t, withSemi.AllowsDocType(DocTypeSemiAnnualReport))

	withoutSemi := NewTargetCriteria("9110", 90, false)
	assert.True(t, withoutSemi.AllowsDocType(DocTypeAnnualReport))
	assert.True(t, withoutSemi.AllowsDocType(DocTypeQuarterlyReport))
	assert.False(t, withoutSemi.AllowsDocType(DocTypeSemiAnnualReport))

	assert.False(t, withSemi.AllowsDocType("130"))
}

func TestTargetCriteriaValidate(t *testing.T) {
	require.NoError(t, NewTargetCriteria("9110", 1, true).Validate())
	require.NoError(t, NewTargetCriteria("0001", 365, false).Validate())

	assert.Error(t, NewTargetCriteria("911", 90, true).Validate(), "too short")
	assert.Error(t, NewTargetCriteria("91100", 90, true).Validate(), "too long")
	assert.Error(t, NewTargetCriteria("91a0", 90, true).Validate(), "non numeric")
	assert.Error(t, NewTargetCriteria("9110", 0, true).Validate(), "zero lookback")
}

func TestDiscoveryOutcomeFound(t *testing.T) {
	assert.False(t, DiscoveryOutcome{}.Found())
	assert.True(t, DiscoveryOutcome{Filing: &FilingDescriptor{DocID: "S100TEST"}}.Found())
}
