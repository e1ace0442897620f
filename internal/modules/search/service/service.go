package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const jobsIndex = "jobs"

type JobSearchFilter struct {
	CompanyID  *uuid.UUID
	Location   string
	ActiveOnly bool
}

// JobIndexer keeps the full-text job index in sync and answers searches with job ids.
type JobIndexer interface {
	IndexJob(job *entity.Job) error
	DeleteJob(id uuid.UUID) error
	SearchJobIDs(query string, filter JobSearchFilter, offset, limit int) ([]uuid.UUID, int64, error)
}

type meiliJobIndexer struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

func NewMeiliJobIndexer(client meilisearch.ServiceManager) JobIndexer {
	s := &meiliJobIndexer{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
	s.initIndexes()
	return s
}

func (s *meiliJobIndexer) initIndexes() {
	filterableAttrs := []string{"company_id", "location_key", "is_active", "deadline"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(jobsIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update jobs filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "deadline", "package"}
	if _, err := s.client.Index(jobsIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update jobs sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliJobDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Eligibility string   `json:"eligibility"`
	Branches    []string `json:"branches"`
	CompanyID   string   `json:"company_id"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"location"`
	LocationKey string   `json:"location_key"`
	Package     float64  `json:"package"`
	IsActive    bool     `json:"is_active"`
	Deadline    int64    `json:"deadline"`
	CreatedAt   int64    `json:"created_at"`
}

// CleanText flattens sanitised HTML into plain searchable text.
func CleanText(policy *bluemonday.Policy, content string) string {
	// Replace block tags with spaces to prevent text merging
	content = strings.NewReplacer("</p>", " ", "<br>", " ", "<br/>", " ", "</li>", " ", "</div>", " ").Replace(content)

	cleanText := html.UnescapeString(policy.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func newJobDoc(policy *bluemonday.Policy, job *entity.Job) meiliJobDoc {
	doc := meiliJobDoc{
		ID:          job.ID.String(),
		Title:       job.Title,
		Description: CleanText(policy, job.Description),
		Eligibility: CleanText(policy, job.Eligibility),
		Branches:    []string(job.EligibleBranches),
		CompanyID:   job.CompanyID.String(),
		Location:    job.Location,
		LocationKey: entity.LocationKey(job.Location),
		Package:     job.Package,
		IsActive:    job.IsActive,
		Deadline:    job.Deadline.Unix(),
		CreatedAt:   job.CreatedAt.Unix(),
	}
	if job.Company != nil {
		doc.CompanyName = job.Company.CompanyName
	}
	return doc
}

func (s *meiliJobIndexer) IndexJob(job *entity.Job) error {
	task, err := s.client.Index(jobsIndex).AddDocuments([]meiliJobDoc{newJobDoc(s.sanitizer, job)}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed job %s, task id: %d", job.ID, task.TaskUID)
	return nil
}

func (s *meiliJobIndexer) DeleteJob(id uuid.UUID) error {
	_, err := s.client.Index(jobsIndex).DeleteDocument(id.String())
	return err
}

// BuildFilter renders the meilisearch filter expression for f.
func BuildFilter(f JobSearchFilter, now time.Time) string {
	var parts []string
	if f.CompanyID != nil {
		parts = append(parts, fmt.Sprintf("company_id = %q", f.CompanyID.String()))
	}
	if key := entity.LocationKey(f.Location); key != "" {
		parts = append(parts, fmt.Sprintf("location_key = %q", key))
	}
	if f.ActiveOnly {
		parts = append(parts, "is_active = true", fmt.Sprintf("deadline > %d", now.Unix()))
	}
	return strings.Join(parts, " AND ")
}

type searchResult struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
	EstimatedTotalHits int64 `json:"estimatedTotalHits"`
}

func (s *meiliJobIndexer) SearchJobIDs(query string, filter JobSearchFilter, offset, limit int) ([]uuid.UUID, int64, error) {
	req := &meilisearch.SearchRequest{
		Offset:               int64(offset),
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	}
	if expr := BuildFilter(filter, s.now()); expr != "" {
		req.Filter = expr
	}

	raw, err := s.client.Index(jobsIndex).SearchRaw(query, req)
	if err != nil {
		return nil, 0, fmt.Errorf("job search failed: %w", err)
	}

	var result searchResult
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode job search result: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, result.EstimatedTotalHits, nil
}

func strPtr(s string) *string {
	return &s
}
