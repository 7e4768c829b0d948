package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		desc     string
		wantType IncidentType
		wantSev  Severity
	}{
		{"military baseline", "Artillery fire reported near the frontline", "", TypeMilitary, SeverityMedium},
		{"military casualties", "Drone strike leaves 4 dead", "", TypeMilitary, SeverityHigh},
		{"military invasion", "Troops deployed as invasion begins", "", TypeMilitary, SeverityCritical},
		{"war context", "War enters new offensive phase", "", TypeMilitary, SeverityHigh},
		{"war without context", "Trade war rhetoric escalates", "", TypeFinancial, SeverityMedium},
		{"terror fatal", "Bombing at market, 12 killed", "", TypeEmergency, SeverityCritical},
		{"terror foiled", "Police foiled bomb plot, suspects arrested", "", TypeEmergency, SeverityMedium},
		{"mass shooting", "School shooting reported downtown", "", TypeEmergency, SeverityHigh},
		{"violent attack with count", "Stabbing attack: 3 people dead", "", TypeEmergency, SeverityHigh},
		{"violent protest", "Anti-government protest turns violent, tear gas fired", "", TypeProtest, SeverityHigh},
		{"large rally without violence", "Thousands rally outside parliament", "", TypeProtest, SeverityLow},
		{"small peaceful march", "Students join peaceful rally", "", TypeProtest, SeverityLow},
		{"protest deaths at scale", "Dozens killed as protest crushed", "", TypeProtest, SeverityCritical},
		{"storm warning", "Storm warning issued for coast", "", TypeWeather, SeverityLow},
		{"flood deaths", "Flood kills many, homes destroyed", "", TypeWeather, SeverityHigh},
		{"catastrophic quake", "Catastrophic earthquake strikes", "", TypeWeather, SeverityCritical},
		{"bank collapse", "Regional bank collapse triggers panic", "", TypeFinancial, SeverityHigh},
		{"election", "Election results announced", "", TypePolitical, SeverityLow},
		{"coup", "Coup leaders seize power", "", TypePolitical, SeverityHigh},
		{"coast guard interdiction", "Coast guard intercepted tanker", "", TypeOther, SeverityMedium},
		{"fallback", "Local team wins championship", "", TypeOther, SeverityLow},
		{"description counts", "Breaking news", "Airstrike hits depot", TypeMilitary, SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, tt.desc)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantSev, got.Severity)
		})
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	// Military precedes protest and weather regardless of word order.
	got := Classify("Storm of protest as tank column crosses border", "")
	assert.Equal(t, TypeMilitary, got.Type)

	// Deterministic across calls.
	for i := 0; i < 5; i++ {
		assert.Equal(t, got, Classify("Storm of protest as tank column crosses border", ""))
	}
}

func TestProtestSeverity(t *testing.T) {
	tests := []struct {
		text string
		want Severity
	}{
		{"hundreds dead after unrest", SeverityCritical},
		{"coup attempt after protests", SeverityCritical},
		{"deadly protest in capital", SeverityHigh},
		{"police use rubber bullets", SeverityHigh},
		{"curfew imposed", SeverityHigh},
		{"nationwide protest planned", SeverityHigh},
		{"peaceful march through city", SeverityLow},
		{"peaceful march ends with arrest", SeverityMedium},
		{"workers gather outside office", SeverityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ProtestSeverity(tt.text))
		})
	}
}
