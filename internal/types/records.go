// Package types provides type definitions for structured data used throughout the cv-features system.
package types

import "time"

// NA marks a field whose content the language model could not provide.
const NA = "NA"

// Sentinel start/end pair assigned to a work record with no date
// information at all. The pair spans a single day so the record
// contributes next to nothing to aggregated experience.
var (
	SentinelStart = time.Date(1969, time.December, 31, 18, 0, 0, 0, time.UTC)
	SentinelEnd   = time.Date(1970, time.January, 1, 18, 0, 0, 0, time.UTC)
)

// WorkRecord is a single normalized work-experience entry. Start and End
// are always set once parsing finishes: records without any date carry the
// sentinel pair, records without an end date carry a synthesized one and
// are flagged Fictional.
type WorkRecord struct {
	Title       string    `json:"title"`
	Institution string    `json:"institution"`
	Brief       string    `json:"brief"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Management  bool      `json:"management"`
	Fictional   bool      `json:"fictional,omitempty"`
}

// IsSentinel reports whether the record carries the no-date placeholder pair.
func (w WorkRecord) IsSentinel() bool {
	return w.Start.Equal(SentinelStart)
}

// Education levels, ordered so that a plain integer comparison picks the
// highest degree.
const (
	LevelUnknown   = -1
	LevelSecondary = 0
	LevelBachelor  = 1
	LevelMaster    = 2
	LevelDoctorate = 3
)

// EducationRecord is a single normalized education entry.
type EducationRecord struct {
	Title       string    `json:"title"`
	Institution string    `json:"institution"`
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
	Level       int       `json:"education_level"`
}

// CertificationRecord is a single normalized certification entry.
type CertificationRecord struct {
	Title string `json:"title"`
	Brief string `json:"brief"`
}

// EmbeddedWork is the vector representation of one work record.
type EmbeddedWork struct {
	Title       []float32 `json:"title"`
	Institution []float32 `json:"institution"`
	Brief       []float32 `json:"brief"`
	Management  int       `json:"management"`
	WorkCounter int       `json:"work_counter"`
}

// EmbeddedCertification is the vector representation of one certification.
type EmbeddedCertification struct {
	Title []float32 `json:"title"`
	Brief []float32 `json:"brief"`
}

// EmbeddedDegree holds the embedded title/institution pair of a degree.
type EmbeddedDegree struct {
	Title       []float32 `json:"title"`
	Institution []float32 `json:"institution"`
}

// EmbeddedEducation summarizes the education history for matching: the
// highest level reached plus the bachelor and highest-degree embeddings
// when they exist. When the highest level is exactly bachelor, Bachelor is
// set and MaxEducation stays nil rather than duplicating the same vectors.
type EmbeddedEducation struct {
	HighestLevel int             `json:"highest_education"`
	Bachelor     *EmbeddedDegree `json:"bachelor,omitempty"`
	MaxEducation *EmbeddedDegree `json:"max_education,omitempty"`
}

// FeatureRecord is the final output for one successfully processed
// document, keyed by filename + "//" + content hash. Immutable once written.
type FeatureRecord struct {
	FileKey                   string                  `json:"file"`
	ExperienceYears           float64                 `json:"exp_years"`
	ManagementExperienceYears float64                 `json:"exp_years_management"`
	AverageJobTenureYears     float64                 `json:"avg_time_in_job"`
	HighestEducationLevel     int                     `json:"highest_education"`
	Work                      []EmbeddedWork          `json:"work"`
	Certifications            []EmbeddedCertification `json:"certification"`
	Bachelor                  *EmbeddedDegree         `json:"bachelor,omitempty"`
	MaxEducation              *EmbeddedDegree         `json:"max_education,omitempty"`
	Label                     string                  `json:"label"`
}
