package store

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asalazar/cv-features/internal/parsing"
	"github.com/asalazar/cv-features/internal/types"
)

func TestSnapshotWriter_WritesRawRecords(t *testing.T) {
	w, err := NewSnapshotWriter(t.TempDir())
	require.NoError(t, err)

	resume := parsing.Resume{
		Work: []types.WorkRecord{{
			Title:       "Software Engineer",
			Institution: "Acme Corp",
			Brief:       "Built backend services.",
			Start:       time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:         time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
			Management:  true,
		}},
		Education: []types.EducationRecord{{
			Title:       "Bachelor of Science",
			Institution: "State University",
			Level:       types.LevelBachelor,
		}},
		Certifications: []types.CertificationRecord{{
			Title: "Cloud Practitioner",
			Brief: types.NA,
		}},
	}

	path, err := w.Write("my resume.pdf", resume)
	require.NoError(t, err)
	assert.Contains(t, path, "my_resume.pdf.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got parsing.Resume
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Work, 1)
	assert.Equal(t, "Software Engineer", got.Work[0].Title)
	assert.True(t, got.Work[0].Management)
	require.Len(t, got.Education, 1)
	assert.Equal(t, types.LevelBachelor, got.Education[0].Level)
	require.Len(t, got.Certifications, 1)

	// The snapshot is the pre-embedding record: no vector content.
	assert.NotContains(t, string(data), "work_counter")
}

func TestSnapshotName(t *testing.T) {
	assert.Equal(t, "a_b_c.json", snapshotName("a/b\\c"))
	assert.Equal(t, "my_resume.pdf.json", snapshotName("my resume.pdf"))
}
