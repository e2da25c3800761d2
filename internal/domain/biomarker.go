package domain

// Biomarker identifies a measured property of a urine sample. The identifiers
// double as display keys, which is why "pH" and "Specific Gravity" keep their
// panel spelling.
type Biomarker string

const (
	BiomarkerUrobilinogen    Biomarker = "Urobilinogen"
	BiomarkerGlucose         Biomarker = "Glucose"
	BiomarkerBilirubin       Biomarker = "Bilirubin"
	BiomarkerKetone          Biomarker = "Ketone"
	BiomarkerSpecificGravity Biomarker = "Specific Gravity"
	BiomarkerBlood           Biomarker = "Blood"
	BiomarkerPH              Biomarker = "pH"
	BiomarkerProtein         Biomarker = "Protein"
	BiomarkerNitrite         Biomarker = "Nitrite"
	BiomarkerLeukocytes      Biomarker = "Leukocytes"
	BiomarkerAscorbicAcid    Biomarker = "Ascorbic Acid"
)

// Predicate tests a single reading against a threshold band.
type Predicate func(Value) bool

// Threshold is the per-biomarker rule set. Normal is evaluated first, then
// Caution when present. Alert is the fallback, never a predicate, so exactly
// one status applies to any reading.
type Threshold struct {
	DisplayName string
	Unit        string
	Normal      Predicate
	Caution     Predicate // nil when the biomarker has no caution band
}

// numBetween matches numeric readings in [lo, hi]. Qualitative readings
// never match a numeric band and fall through to Alert.
func numBetween(lo, hi float64) Predicate {
	return func(v Value) bool {
		f, ok := v.Float()
		return ok && f >= lo && f <= hi
	}
}

// numBelow matches numeric readings strictly below limit.
func numBelow(limit float64) Predicate {
	return func(v Value) bool {
		f, ok := v.Float()
		return ok && f < limit
	}
}

// gradeIn matches qualitative readings against the accepted dipstick grades.
func gradeIn(grades ...string) Predicate {
	return func(v Value) bool {
		s, ok := v.Text()
		if !ok {
			return false
		}
		for _, g := range grades {
			if s == g {
				return true
			}
		}
		return false
	}
}

// Catalog is the static biomarker registry. Numeric bands follow standard
// urinalysis reference ranges; qualitative biomarkers use dipstick grades.
// Nitrite deliberately has no caution band: any non-negative reading alerts.
var Catalog = map[Biomarker]Threshold{
	BiomarkerUrobilinogen: {
		DisplayName: "Urobilinogen",
		Unit:        "mg/dL",
		Normal:      numBetween(0.1, 1.0),
		Caution:     numBelow(2.0),
	},
	BiomarkerGlucose: {
		DisplayName: "Glucose",
		Unit:        "mg/dL",
		Normal:      numBelow(15),
		Caution:     numBelow(30),
	},
	BiomarkerBilirubin: {
		DisplayName: "Bilirubin",
		Unit:        "",
		Normal:      gradeIn("Negative"),
		Caution:     gradeIn("Small"),
	},
	BiomarkerKetone: {
		DisplayName: "Ketone",
		Unit:        "mg/dL",
		Normal:      numBelow(5),
		Caution:     numBelow(40),
	},
	BiomarkerSpecificGravity: {
		DisplayName: "Specific Gravity",
		Unit:        "",
		Normal:      numBetween(1.005, 1.030),
		Caution:     numBetween(1.000, 1.035),
	},
	BiomarkerBlood: {
		DisplayName: "Blood",
		Unit:        "",
		Normal:      gradeIn("Negative"),
		Caution:     gradeIn("Trace"),
	},
	BiomarkerPH: {
		DisplayName: "pH",
		Unit:        "",
		Normal:      numBetween(4.5, 8.0),
		Caution:     numBetween(4.0, 9.0),
	},
	BiomarkerProtein: {
		DisplayName: "Protein",
		Unit:        "mg/dL",
		Normal:      numBelow(15),
		Caution:     numBelow(30),
	},
	BiomarkerNitrite: {
		DisplayName: "Nitrite",
		Unit:        "",
		Normal:      gradeIn("Negative"),
	},
	BiomarkerLeukocytes: {
		DisplayName: "Leukocytes",
		Unit:        "",
		Normal:      gradeIn("Negative"),
		Caution:     gradeIn("Trace"),
	},
	BiomarkerAscorbicAcid: {
		DisplayName: "Ascorbic Acid",
		Unit:        "mg/dL",
		Normal:      numBelow(20),
		Caution:     numBelow(40),
	},
}

// Biomarkers returns the catalog keys in panel order.
func Biomarkers() []Biomarker {
	return []Biomarker{
		BiomarkerUrobilinogen,
		BiomarkerGlucose,
		BiomarkerBilirubin,
		BiomarkerKetone,
		BiomarkerSpecificGravity,
		BiomarkerBlood,
		BiomarkerPH,
		BiomarkerProtein,
		BiomarkerNitrite,
		BiomarkerLeukocytes,
		BiomarkerAscorbicAcid,
	}
}

// IsKnown reports whether the biomarker is in the catalog.
func (b Biomarker) IsKnown() bool {
	_, ok := Catalog[b]
	return ok
}

// Classify maps a reading to its health status. It is pure and deterministic:
// the same (biomarker, value) pair always yields the same status. An unknown
// biomarker classifies as Normal, the conservative display default; callers
// that want stricter handling must reject unknown ids at the boundary.
// Absent readings must be filtered out by the caller before classification.
func Classify(b Biomarker, v Value) HealthStatus {
	t, ok := Catalog[b]
	if !ok {
		return StatusNormal
	}
	if t.Normal(v) {
		return StatusNormal
	}
	if t.Caution != nil && t.Caution(v) {
		return StatusCaution
	}
	return StatusAlert
}
