// Package riskclass assigns an EU AI Act risk tier to an AI system from a
// questionnaire.
//
// The order of evaluation is fixed: prohibited practices (Art. 5) first,
// then high-risk uses (Art. 6 with Annex I and Annex III), then the
// transparency obligations of Art. 50. Anything else is minimal risk.
package riskclass

import (
	"fmt"
	"sort"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// Practice is an Art. 5 prohibited practice.
type Practice string

const (
	PracticeSocialScoring          Practice = "social_scoring"
	PracticeSubliminalManipulation Practice = "subliminal_manipulation"
	PracticeExploitVulnerabilities Practice = "exploit_vulnerabilities"
	PracticeRealtimeBiometricID    Practice = "realtime_remote_biometric_identification"
	PracticeWorkplaceEmotion       Practice = "workplace_emotion_recognition"
	PracticeFacialScraping         Practice = "untargeted_facial_scraping"
	PracticePredictivePolicing     Practice = "predictive_policing_profiling"
)

var practiceArticles = map[Practice]string{
	PracticeSubliminalManipulation: "Art. 5(1)(a)",
	PracticeExploitVulnerabilities: "Art. 5(1)(b)",
	PracticeSocialScoring:          "Art. 5(1)(c)",
	PracticePredictivePolicing:     "Art. 5(1)(d)",
	PracticeFacialScraping:         "Art. 5(1)(e)",
	PracticeWorkplaceEmotion:       "Art. 5(1)(f)",
	PracticeRealtimeBiometricID:    "Art. 5(1)(h)",
}

// Area is an Annex III high-risk area.
type Area string

const (
	AreaBiometrics             Area = "biometrics"
	AreaCriticalInfrastructure Area = "critical_infrastructure"
	AreaEducation              Area = "education"
	AreaEmployment             Area = "employment"
	AreaEssentialServices      Area = "essential_services"
	AreaLawEnforcement         Area = "law_enforcement"
	AreaMigration              Area = "migration"
	AreaJustice                Area = "justice"
)

var areaPoints = map[Area]string{
	AreaBiometrics:             "Annex III point 1",
	AreaCriticalInfrastructure: "Annex III point 2",
	AreaEducation:              "Annex III point 3",
	AreaEmployment:             "Annex III point 4",
	AreaEssentialServices:      "Annex III point 5",
	AreaLawEnforcement:         "Annex III point 6",
	AreaMigration:              "Annex III point 7",
	AreaJustice:                "Annex III point 8",
}

// Practices lists the known prohibited practices.
func Practices() []Practice {
	out := make([]Practice, 0, len(practiceArticles))
	for p := range practiceArticles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Areas lists the known Annex III areas.
func Areas() []Area {
	out := make([]Area, 0, len(areaPoints))
	for a := range areaPoints {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Questionnaire holds the answers used for classification.
type Questionnaire struct {
	ProhibitedPractices []Practice `json:"prohibited_practices"`
	Areas               []Area     `json:"areas"`

	// SafetyComponent marks a safety component of, or itself, a product
	// covered by the Union harmonisation legislation of Annex I.
	SafetyComponent bool `json:"safety_component"`

	// NarrowProceduralTask is the Art. 6(3) derogation: the system only
	// performs a narrow procedural or preparatory task. It does not apply
	// when the system profiles natural persons.
	NarrowProceduralTask bool `json:"narrow_procedural_task"`
	Profiling            bool `json:"profiling"`

	InteractsWithPeople     bool `json:"interacts_with_people"`
	GeneratesSyntheticMedia bool `json:"generates_synthetic_media"`
	EmotionRecognition      bool `json:"emotion_recognition"`
	BiometricCategorisation bool `json:"biometric_categorisation"`
}

// Validate rejects unknown practice and area keys.
func (q Questionnaire) Validate() error {
	for _, p := range q.ProhibitedPractices {
		if _, ok := practiceArticles[p]; !ok {
			return fmt.Errorf("unknown prohibited practice %q", p)
		}
	}
	for _, a := range q.Areas {
		if _, ok := areaPoints[a]; !ok {
			return fmt.Errorf("unknown high-risk area %q", a)
		}
	}
	return nil
}

// Result is the outcome of a classification.
type Result struct {
	Tier        model.RiskTier `json:"tier"`
	Reasons     []string       `json:"reasons"`
	Obligations []string       `json:"obligations"`
}

// Classify determines the risk tier for q. Callers should Validate first;
// unknown keys are ignored here.
func Classify(q Questionnaire) Result {
	if reasons := prohibited(q); len(reasons) > 0 {
		return result(model.RiskTierUnacceptable, reasons)
	}
	if reasons, ok := highRisk(q); ok {
		return result(model.RiskTierHigh, reasons)
	}
	if reasons := transparency(q); len(reasons) > 0 {
		if q.NarrowProceduralTask && len(q.Areas) > 0 && !q.Profiling {
			reasons = append([]string{"Art. 6(3) derogation applies to the Annex III use"}, reasons...)
		}
		return result(model.RiskTierLimited, reasons)
	}

	reasons := []string{"no prohibited practice, high-risk use or transparency trigger identified"}
	if q.NarrowProceduralTask && len(q.Areas) > 0 && !q.Profiling {
		reasons = []string{"Art. 6(3) derogation applies to the Annex III use"}
	}
	return result(model.RiskTierMinimal, reasons)
}

func result(tier model.RiskTier, reasons []string) Result {
	return Result{Tier: tier, Reasons: reasons, Obligations: Obligations(tier)}
}

func prohibited(q Questionnaire) []string {
	var reasons []string
	for _, p := range q.ProhibitedPractices {
		if article, ok := practiceArticles[p]; ok {
			reasons = append(reasons, fmt.Sprintf("%s: prohibited practice %s", article, p))
		}
	}
	return reasons
}

func highRisk(q Questionnaire) ([]string, bool) {
	var reasons []string
	if q.SafetyComponent {
		reasons = append(reasons, "Art. 6(1): safety component of a product covered by Annex I")
	}

	var annex []string
	for _, a := range q.Areas {
		if point, ok := areaPoints[a]; ok {
			annex = append(annex, fmt.Sprintf("Art. 6(2) and %s: %s", point, a))
		}
	}
	if len(annex) > 0 && (!q.NarrowProceduralTask || q.Profiling) {
		reasons = append(reasons, annex...)
		if q.NarrowProceduralTask && q.Profiling {
			reasons = append(reasons, "Art. 6(3) derogation excluded because the system profiles natural persons")
		}
	}
	return reasons, len(reasons) > 0
}

func transparency(q Questionnaire) []string {
	var reasons []string
	if q.InteractsWithPeople {
		reasons = append(reasons, "Art. 50(1): interacts directly with natural persons")
	}
	if q.GeneratesSyntheticMedia {
		reasons = append(reasons, "Art. 50(2) and 50(4): generates synthetic or manipulated content")
	}
	if q.EmotionRecognition {
		reasons = append(reasons, "Art. 50(3): emotion recognition system")
	}
	if q.BiometricCategorisation {
		reasons = append(reasons, "Art. 50(3): biometric categorisation system")
	}
	return reasons
}

var obligations = map[model.RiskTier][]string{
	model.RiskTierUnacceptable: {
		"Cease placing on the market, putting into service or use (Art. 5)",
		"Decommission the system and document the withdrawal",
	},
	model.RiskTierHigh: {
		"Risk management system (Art. 9)",
		"Data and data governance (Art. 10)",
		"Technical documentation (Art. 11)",
		"Record-keeping and automatic logging (Art. 12)",
		"Transparency and instructions for use (Art. 13)",
		"Human oversight (Art. 14)",
		"Accuracy, robustness and cybersecurity (Art. 15)",
		"Conformity assessment and CE marking (Art. 43, Art. 48)",
		"Registration in the EU database (Art. 49)",
		"Post-market monitoring and incident reporting (Art. 72, Art. 73)",
	},
	model.RiskTierLimited: {
		"Inform people that they are interacting with an AI system (Art. 50(1))",
		"Mark synthetic content in a machine-readable format (Art. 50(2))",
		"Disclose emotion recognition or biometric categorisation (Art. 50(3))",
		"Disclose deep fakes (Art. 50(4))",
	},
	model.RiskTierMinimal: {
		"Ensure AI literacy of staff (Art. 4)",
		"Voluntary codes of conduct (Art. 95)",
	},
}

// Obligations returns the obligations attached to tier.
func Obligations(tier model.RiskTier) []string {
	list := obligations[tier]
	out := make([]string, len(list))
	copy(out, list)
	return out
}
