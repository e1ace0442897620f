package service

import (
	"testing"
	"time"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	policy := bluemonday.StrictPolicy()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraphs do not merge", "<p>Go</p><p>Postgres</p>", "Go Postgres"},
		{"scripts removed", `<script>alert(1)</script>Backend &amp; infra`, "Backend & infra"},
		{"whitespace collapsed", "  lots \n of\tspace ", "lots of space"},
		{"list items", "<ul><li>CSE</li><li>ECE</li></ul>", "CSE ECE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(policy, tt.in))
		})
	}
}

func TestBuildFilter(t *testing.T) {
	now := time.Unix(1700000000, 0)
	companyID := uuid.MustParse("7f1b1c3e-8a53-4c55-9d0e-0b9a1f2c3d4e")

	assert.Equal(t, "", BuildFilter(JobSearchFilter{}, now))
	assert.Equal(t,
		`company_id = "7f1b1c3e-8a53-4c55-9d0e-0b9a1f2c3d4e" AND location_key = "pune \"hq\"" AND is_active = true AND deadline > 1700000000`,
		BuildFilter(JobSearchFilter{CompanyID: &companyID, Location: `Pune "HQ"`, ActiveOnly: true}, now),
	)
	assert.Equal(t, "", BuildFilter(JobSearchFilter{Location: "   "}, now))
}

func TestNewJobDoc(t *testing.T) {
	job := &entity.Job{
		ID:               uuid.New(),
		CompanyID:        uuid.New(),
		Company:          &entity.CompanyProfile{CompanyName: "Acme"},
		Title:            "SDE I",
		Location:         " Bengaluru ",
		Description:      "<p>Build <b>APIs</b></p>",
		EligibleBranches: pq.StringArray{"CSE"},
		Deadline:         time.Unix(1800000000, 0),
		IsActive:         true,
	}

	doc := newJobDoc(bluemonday.StrictPolicy(), job)
	assert.Equal(t, job.ID.String(), doc.ID)
	assert.Equal(t, "Build APIs", doc.Description)
	assert.Equal(t, "Acme", doc.CompanyName)
	assert.Equal(t, int64(1800000000), doc.Deadline)
	assert.Equal(t, []string{"CSE"}, doc.Branches)
	assert.Equal(t, " Bengaluru ", doc.Location)
	assert.Equal(t, "bengaluru", doc.LocationKey)
	assert.Equal(t, `location_key = "bengaluru"`, BuildFilter(JobSearchFilter{Location: "BENGALURU"}, time.Now()))
}
