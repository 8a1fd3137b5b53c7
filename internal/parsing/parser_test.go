package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asalazar/cv-features/internal/types"
)

var testCreatedAt = time.Date(2024, time.May, 23, 14, 37, 12, 0, time.UTC)

func parseResponse(t *testing.T, response string) Resume {
	t.Helper()
	return NewParser(zap.NewNop()).Parse(response, testCreatedAt)
}

func TestParse_SingleWorkBlock(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: No
Title: Software Engineer
Institution: Acme Corp
Start Date: January, 2020
End Date: March, 2022
Brief: Candidate built backend services.
`)

	require.Len(t, resume.Work, 1)
	w := resume.Work[0]
	assert.Equal(t, "Software Engineer", w.Title)
	assert.Equal(t, "Acme Corp", w.Institution)
	assert.Equal(t, "Candidate built backend services.", w.Brief)
	assert.False(t, w.Management)
	assert.False(t, w.Fictional)
	assert.True(t, w.Start.Equal(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.End.Equal(time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParse_ManagementDefaultsToTrueUnlessNo(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: Yes
Title: Team Lead
Institution: Acme Corp
Start Date: 2019
End Date: 2020
Brief: Led a team.

Type: Work Experience
Management: N/A
Title: Engineer
Institution: Beta Inc
Start Date: 2017
End Date: 2018
Brief: Wrote code.
`)

	require.Len(t, resume.Work, 2)
	for _, w := range resume.Work {
		assert.True(t, w.Management, "only an explicit No clears the flag (%s)", w.Title)
	}
}

func TestParse_EndDateEmbeddedInStartField(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: No
Title: Analyst
Institution: Gamma LLC
Start Date: January 2020 End Date: June 2021
Brief: Analyzed data.
`)

	require.Len(t, resume.Work, 1)
	w := resume.Work[0]
	assert.Equal(t, 2020, w.Start.Year())
	assert.Equal(t, time.January, w.Start.Month())
	assert.Equal(t, 2021, w.End.Year())
	assert.Equal(t, time.June, w.End.Month())
}

func TestParse_PresentLeakedIntoStartField(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: No
Title: Consultant
Institution: Delta SA
Start Date: March 2019 - present
End Date: NA
Brief: Consulting.
`)

	require.Len(t, resume.Work, 1)
	w := resume.Work[0]
	assert.False(t, w.Fictional, "present overrides the NA end, so no fictional end is synthesized")
	assert.True(t, w.End.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParse_NoDatesAssignsSentinelPair(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: No
Title: Volunteer
Institution: NGO
Start Date: NA
End Date: NA
Brief: Helped out.
`)

	require.Len(t, resume.Work, 1)
	w := resume.Work[0]
	assert.True(t, w.IsSentinel())
	assert.True(t, w.Start.Equal(types.SentinelStart))
	assert.True(t, w.End.Equal(types.SentinelEnd))
	assert.False(t, w.Fictional)
}

func TestParse_MissingEndSynthesizesFictional(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: No
Title: Contractor
Institution: Epsilon
Start Date: January 2021
End Date: NA
Brief: Short engagement.
`)

	require.Len(t, resume.Work, 1)
	w := resume.Work[0]
	assert.True(t, w.Fictional)
	assert.Equal(t, 90*24*time.Hour, w.End.Sub(w.Start))
}

func TestParse_PresentResolvesToFirstOfReferenceMonth(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: Yes
Title: Director
Institution: Zeta
Start Date: February 2022
End Date: Present
Brief: Ongoing role.
`)

	require.Len(t, resume.Work, 1)
	assert.True(t, resume.Work[0].End.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParse_WorkSortedByEndDate(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: No
Title: Second
Institution: B
Start Date: 2020
End Date: 2023
Brief: b.

Type: Work Experience
Management: No
Title: First
Institution: A
Start Date: 2015
End Date: 2017
Brief: a.
`)

	require.Len(t, resume.Work, 2)
	assert.Equal(t, "First", resume.Work[0].Title)
	assert.Equal(t, "Second", resume.Work[1].Title)
}

func TestParse_EducationClassifiedAndManagementDropped(t *testing.T) {
	resume := parseResponse(t, `Type: Education
Management: No
Title: Bachelors Degree
Institution: State University
Start Date: 2010
End Date: 2014
Brief: NA

Type: Education
Management: No
Title: Masters
Institution: Tech Institute
Start Date: 2014
End Date: 2016
Brief: NA
`)

	require.Len(t, resume.Education, 2)
	assert.Equal(t, types.LevelBachelor, resume.Education[0].Level)
	assert.Equal(t, types.LevelMaster, resume.Education[1].Level)
	assert.Empty(t, resume.Work)
}

func TestParse_Certification(t *testing.T) {
	resume := parseResponse(t, `Type: Certification
Management: NA
Title: AWS Solutions Architect
Institution: Amazon
Start Date: NA
End Date: NA
Brief: Cloud architecture certification.
`)

	require.Len(t, resume.Certifications, 1)
	c := resume.Certifications[0]
	assert.Equal(t, "AWS Solutions Architect", c.Title)
	assert.Equal(t, "Cloud architecture certification.", c.Brief)
}

func TestParse_MalformedBlockSkippedSiblingsSurvive(t *testing.T) {
	resume := parseResponse(t, `Type: Work Experience
Management: No
Title: Broken Dates
Institution: X
Start Date: sometime ago maybe
End Date: who knows
Brief: bad.

Type: Work Experience
Management: No
Title: Good Record
Institution: Y
Start Date: 2018
End Date: 2019
Brief: good.
`)

	require.Len(t, resume.Work, 1)
	assert.Equal(t, "Good Record", resume.Work[0].Title)
}

func TestParse_EmptyResponse(t *testing.T) {
	resume := parseResponse(t, "")
	assert.Empty(t, resume.Work)
	assert.Empty(t, resume.Education)
	assert.Empty(t, resume.Certifications)
}

func TestCleanField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", types.NA},
		{"  ", types.NA},
		{"n/a", types.NA},
		{"N/A", types.NA},
		{"n", types.NA},
		{"N", types.NA},
		{"None", types.NA},
		{"none provided", types.NA},
		{" Acme Corp ", "Acme Corp"},
		{"No", "No"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanField(tt.input), "input %q", tt.input)
	}
}

func TestClassifyEducation(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Bachelors Degree", types.LevelBachelor},
		{"Bachelor of Engineering", types.LevelBachelor}, // bachelor wins over engineer
		{"MBA", types.LevelMaster},
		{"Masters Degree", types.LevelMaster},
		{"Engineering Degree", types.LevelBachelor},
		{"Licenciatura en Sistemas", types.LevelBachelor},
		{"International Internship", types.LevelBachelor},
		{"Doctoral Studies", types.LevelDoctorate},
		{"Ph.D in Physics", types.LevelDoctorate},
		{"High School Diploma", types.LevelSecondary},
		{"Bachillerato", types.LevelSecondary},
		{"Continuing Studies", types.LevelUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyEducation(tt.title), "title %q", tt.title)
	}
}
