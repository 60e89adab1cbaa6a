// Package relation classifies the interaction between a day's earthly
// branch and the branches of a user's four-pillar chart. The relation
// tables are fixed tradition; the precedence order is load-bearing and must
// not be reordered (see Classify).
package relation

// Level is the three-tier risk classification.
type Level string

const (
	High   Level = "high"
	Medium Level = "medium"
	Low    Level = "low"
)

// Result pairs a risk level with its reason code.
type Result struct {
	Level  Level  `json:"level"`
	Reason string `json:"reason"`
}

// Reason codes returned by Classify.
const (
	ReasonClash      = "Clash"
	ReasonSelfPunish = "Self-Punishment"
	ReasonUngrateful = "Ungrateful Punishment"
	ReasonPower      = "Power Punishment"
	ReasonBullying   = "Bullying Punishment"
	ReasonSixHarmony = "Six Harmony"
	ReasonTrio       = "Trio Harmony"
	ReasonHarm       = "Harm"
	ReasonBreaking   = "Breaking"
	ReasonNeutral    = "Neutral"
)

// 冲 (Clash): six opposite pairs, 180° apart in the branch cycle.
var clashes = map[string]string{
	"子": "午", "午": "子",
	"丑": "未", "未": "丑",
	"寅": "申", "申": "寅",
	"卯": "酉", "酉": "卯",
	"辰": "戌", "戌": "辰",
	"巳": "亥", "亥": "巳",
}

// 自刑 (Self-Punishment): only these four branches punish themselves.
var selfPunishments = map[string]bool{
	"午": true, "辰": true, "酉": true, "亥": true,
}

// 子卯刑 (Ungrateful Punishment): the single symmetric pair.
var ungratefulPunishment = map[string]string{
	"子": "卯", "卯": "子",
}

// 寅巳申刑 (Power Struggle Punishment).
var powerPunishment = []string{"寅", "巳", "申"}

// 丑未戌刑 (Bullying Punishment).
var bullyingPunishment = []string{"丑", "未", "戌"}

// 害 (Harm): six pairs of indirect conflict.
var harms = map[string]string{
	"子": "未", "未": "子",
	"丑": "午", "午": "丑",
	"寅": "巳", "巳": "寅",
	"卯": "辰", "辰": "卯",
	"申": "亥", "亥": "申",
	"酉": "戌", "戌": "酉",
}

// 六合 (Six Harmonies).
var sixHarmonies = map[string]string{
	"子": "丑", "丑": "子",
	"寅": "亥", "亥": "寅",
	"卯": "戌", "戌": "卯",
	"辰": "酉", "酉": "辰",
	"巳": "申", "申": "巳",
	"午": "未", "未": "午",
}

// 三合 (Three Harmonies): the four elemental trios.
var trios = [][]string{
	{"亥", "卯", "未"}, // wood
	{"寅", "午", "戌"}, // fire
	{"巳", "酉", "丑"}, // metal
	{"申", "子", "辰"}, // water
}

// 破 (Breaking): six pairs of disruption.
var breaking = map[string]string{
	"子": "酉", "酉": "子",
	"丑": "辰", "辰": "丑",
	"寅": "亥", "亥": "寅",
	"卯": "午", "午": "卯",
	"巳": "申", "申": "巳",
	"未": "戌", "戌": "未",
}

func contains(set []string, branch string) bool {
	for _, b := range set {
		if b == branch {
			return true
		}
	}
	return false
}

func hasClash(daily string, refs []string) bool {
	return contains(refs, clashes[daily])
}

func hasSelfPunishment(daily string, refs []string) bool {
	return selfPunishments[daily] && contains(refs, daily)
}

func hasUngratefulPunishment(daily string, refs []string) bool {
	target, ok := ungratefulPunishment[daily]
	return ok && contains(refs, target)
}

// tripletPunishment triggers when the daily branch is a member and any
// reference branch is one of the other two members (not itself).
func tripletPunishment(triplet []string, daily string, refs []string) bool {
	if !contains(triplet, daily) {
		return false
	}
	for _, b := range triplet {
		if b != daily && contains(refs, b) {
			return true
		}
	}
	return false
}

func hasHarm(daily string, refs []string) bool {
	return contains(refs, harms[daily])
}

func hasBreaking(daily string, refs []string) bool {
	return contains(refs, breaking[daily])
}

func hasSixHarmony(daily string, refs []string) bool {
	return contains(refs, sixHarmonies[daily])
}

func hasTrioHarmony(daily string, refs []string) bool {
	for _, trio := range trios {
		if !contains(trio, daily) {
			continue
		}
		for _, b := range refs {
			if contains(trio, b) {
				return true
			}
		}
	}
	return false
}

// Classify rates a daily branch against the reference branches, first match
// wins. Clash and the punishments dominate everything; harmony is checked
// before Harm and Breaking so a simultaneously harmonious and weakly
// negative day still reads positive. Callers must special-case an empty
// reference set ("no profile") before calling; Classify itself reports
// Neutral for it.
func Classify(daily string, refs []string) Result {
	switch {
	case hasClash(daily, refs):
		return Result{Level: High, Reason: ReasonClash}
	case hasSelfPunishment(daily, refs):
		return Result{Level: High, Reason: ReasonSelfPunish}
	case hasUngratefulPunishment(daily, refs):
		return Result{Level: High, Reason: ReasonUngrateful}
	case tripletPunishment(powerPunishment, daily, refs):
		return Result{Level: High, Reason: ReasonPower}
	case tripletPunishment(bullyingPunishment, daily, refs):
		return Result{Level: High, Reason: ReasonBullying}
	case hasSixHarmony(daily, refs):
		return Result{Level: Low, Reason: ReasonSixHarmony}
	case hasTrioHarmony(daily, refs):
		return Result{Level: Low, Reason: ReasonTrio}
	case hasHarm(daily, refs):
		return Result{Level: Medium, Reason: ReasonHarm}
	case hasBreaking(daily, refs):
		return Result{Level: Medium, Reason: ReasonBreaking}
	default:
		return Result{Level: Medium, Reason: ReasonNeutral}
	}
}
