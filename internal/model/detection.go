package model

// Classification is the ML classifier's verdict for an event. It is backend
// payload shape only; the console never computes it.
type Classification struct {
	Category            string   `json:"category"`
	AttackType          string   `json:"attack_type,omitempty"`
	Confidence          float64  `json:"confidence"`
	Tags                []string `json:"tags,omitempty"`
	RecommendedPriority string   `json:"recommended_priority,omitempty"`
	IOC                 []IOC    `json:"ioc,omitempty"`
}

// DetectionKind discriminates the two detection payload variants the backend
// can produce for an event.
type DetectionKind int

const (
	// DetectionFull carries anomaly scoring plus an optional classification.
	DetectionFull DetectionKind = iota
	// DetectionClassificationOnly carries a classification with no anomaly
	// scoring; risk level and action are filled with fixed defaults.
	DetectionClassificationOnly
)

// Defaults applied when only a classification is available.
const (
	defaultRiskLevel         = "unknown"
	defaultRecommendedAction = "review"
)

// Detection is the closed variant set for ML results on a single event.
type Detection struct {
	Kind              DetectionKind   `json:"-"`
	EventID           int             `json:"event_id"`
	IsAnomaly         bool            `json:"is_anomaly"`
	AnomalyScore      float64         `json:"anomaly_score"`
	Classification    *Classification `json:"classification,omitempty"`
	RiskLevel         string          `json:"risk_level"`
	RecommendedAction string          `json:"recommended_action"`
	MLConfidence      float64         `json:"ml_confidence"`
}

// DetectionFromClassification converts a classification-only payload into a
// Detection, supplying the fixed defaults for the fields that variant lacks.
func DetectionFromClassification(eventID int, c Classification) Detection {
	d := Detection{
		Kind:              DetectionClassificationOnly,
		EventID:           eventID,
		Classification:    &c,
		RiskLevel:         defaultRiskLevel,
		RecommendedAction: defaultRecommendedAction,
		MLConfidence:      c.Confidence,
	}
	return d
}

// MLStats reports backend model state, used on the ML status view.
type MLStats struct {
	AnomalyDetectorTrained bool `json:"anomaly_detector_trained"`
	EventsInWindow         int  `json:"events_in_window"`
	PatternsLoaded         int  `json:"patterns_loaded"`
}
