package domain

import (
	"regexp"
	"strings"
)

// Classification is the category and severity assigned to a news item.
type Classification struct {
	Type     IncidentType
	Severity Severity
}

func re(pattern string) *regexp.Regexp { return regexp.MustCompile(pattern) }

var (
	militaryRe         = re(`\b(airstrike|air strike|combat|troops deployed|military operation|armed forces|battalion|regiment|warship|fighter jet|tank|artillery|drone strike|military base|ceasefire|bombardment|frontline|front line)\b`)
	militaryHighRe     = re(`\b(killed|casualties|dead|wounded|bombing|airstrike|missile strike)\b`)
	militaryCriticalRe = re(`\b(massacre|mass casualties|invasion|nuclear|chemical weapon)\b`)

	warRe             = re(`\bwar\b`)
	warContextRe      = re(`\b(zone|front|combat|offensive|defense|casualties)\b`)
	warCriticalRe     = re(`\b(nuclear|chemical|genocide|massacre)\b`)
	terrorRe          = re(`\b(terrorist attack|terrorism|mass shooting|active shooter|hostage|bomb plot|bombing)\b`)
	fatalitiesRe      = re(`\b(killed|dead|casualties)\b`)
	thwartedRe        = re(`\b(prevented|foiled|arrested|disrupted)\b`)
	massShootingRe    = re(`\b(mass shooting|school shooting|workplace shooting)\b`)
	killedRe          = re(`\b(killed|dead)\b`)
	violentAttackRe   = re(`\b(shooting|stabbing|attack)\b`)
	victimCountRe     = re(`\b(\d+\s+(people|victims|killed|dead))\b`)
	unrestRe          = re(`\b(protest|riot|demonstration|rally|civil unrest|uprising)\b`)
	disasterRe        = re(`\b(wildfire|flood|storm|hurricane|tornado|earthquake|tsunami|disaster|cyclone|typhoon|volcanic eruption|landslide)\b`)
	disasterNoticeRe  = re(`\b(warning|advisory|watch)\b`)
	disasterDamageRe  = re(`\b(killed|dead|casualties|destroyed)\b`)
	disasterHighRe    = re(`\b(killed|dead|casualties|destroyed|devastated)\b`)
	disasterCritRe    = re(`\b(catastrophic|mass casualties|hundreds killed|thousands killed)\b`)
	financialCrisisRe = re(`\b(market crash|economic collapse|bank collapse|currency crisis|debt default|financial crisis)\b`)
	financialRe       = re(`\b(recession|inflation|sanctions|trade war|tariff)\b`)
	politicalRe       = re(`\b(election|summit|treaty|diplomatic|sanctions|coup|impeachment)\b`)
	politicalHighRe   = re(`\b(coup|overthrow|assassination|impeachment)\b`)
	interdictionRe    = re(`\b(fleeing|evading|pursuit|smuggling|coast guard|border patrol|intercepted)\b`)
	vesselRe          = re(`\b(vessel|ship|tanker|boat|cargo|aircraft)\b`)

	protestMassDeathRe  = re(`\b(killed|dead|deaths)\b`)
	protestScaleRe      = re(`\b(dozens|hundreds|many|mass|multiple)\b`)
	protestRegimeRe     = re(`\b(revolution|coup attempt|government overthrown|regime change)\b`)
	protestDeathRe      = re(`\b(killed|dead|death|deaths|deadly|casualties|fatalities)\b`)
	protestViolenceRe   = re(`\b(violent|riot|clash|clashes|tear gas|water cannon|rubber bullets)\b`)
	protestEmergencyRe  = re(`\b(state of emergency|martial law|curfew|crackdown|suppression|military deployed)\b`)
	protestBreadthRe    = re(`\b(thousands|nationwide|widespread|escalating|intensifying)\b`)
	protestSubjectRe    = re(`\b(protest|unrest|demonstration)\b`)
	protestPeacefulRe   = re(`\b(peaceful|march|rally)\b`)
	protestEscalationRe = re(`\b(violent|clash|riot|arrest|injured|killed)\b`)
)

// Classify assigns a type and severity to a news item. Rules are evaluated
// in a fixed order over the lower-cased title and description and the first
// matching rule wins.
func Classify(title, description string) Classification {
	text := strings.ToLower(title + " " + description)

	switch {
	case militaryRe.MatchString(text):
		sev := SeverityMedium
		if militaryHighRe.MatchString(text) {
			sev = SeverityHigh
		}
		if militaryCriticalRe.MatchString(text) {
			sev = SeverityCritical
		}
		return Classification{TypeMilitary, sev}

	case warRe.MatchString(text) && warContextRe.MatchString(text):
		sev := SeverityHigh
		if warCriticalRe.MatchString(text) {
			sev = SeverityCritical
		}
		return Classification{TypeMilitary, sev}

	case terrorRe.MatchString(text):
		sev := SeverityHigh
		fatal := fatalitiesRe.MatchString(text)
		if fatal {
			sev = SeverityCritical
		}
		if thwartedRe.MatchString(text) && !fatal {
			sev = SeverityMedium
		}
		return Classification{TypeEmergency, sev}

	case massShootingRe.MatchString(text),
		killedRe.MatchString(text) && violentAttackRe.MatchString(text) && victimCountRe.MatchString(text):
		return Classification{TypeEmergency, SeverityHigh}

	case unrestRe.MatchString(text):
		return Classification{TypeProtest, ProtestSeverity(text)}

	case disasterRe.MatchString(text):
		sev := SeverityMedium
		if disasterNoticeRe.MatchString(text) && !disasterDamageRe.MatchString(text) {
			sev = SeverityLow
		}
		if disasterHighRe.MatchString(text) {
			sev = SeverityHigh
		}
		if disasterCritRe.MatchString(text) {
			sev = SeverityCritical
		}
		return Classification{TypeWeather, sev}

	case financialCrisisRe.MatchString(text):
		return Classification{TypeFinancial, SeverityHigh}

	case financialRe.MatchString(text):
		return Classification{TypeFinancial, SeverityMedium}

	case politicalRe.MatchString(text):
		sev := SeverityLow
		if politicalHighRe.MatchString(text) {
			sev = SeverityHigh
		}
		return Classification{TypePolitical, sev}

	case interdictionRe.MatchString(text) && vesselRe.MatchString(text):
		return Classification{TypeOther, SeverityMedium}
	}

	return Classification{TypeOther, SeverityLow}
}

// ProtestSeverity grades civil unrest by violence and scale. text is
// expected to be lower-cased.
func ProtestSeverity(text string) Severity {
	switch {
	case protestMassDeathRe.MatchString(text) && protestScaleRe.MatchString(text):
		return SeverityCritical
	case protestRegimeRe.MatchString(text):
		return SeverityCritical
	case protestDeathRe.MatchString(text):
		return SeverityHigh
	case protestViolenceRe.MatchString(text):
		return SeverityHigh
	case protestEmergencyRe.MatchString(text):
		return SeverityHigh
	case protestBreadthRe.MatchString(text) && protestSubjectRe.MatchString(text):
		return SeverityHigh
	case protestPeacefulRe.MatchString(text) && !protestEscalationRe.MatchString(text):
		return SeverityLow
	}
	return SeverityMedium
}
