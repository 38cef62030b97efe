package jobsearch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Posting is one job posting as returned by the search API. Postings carry
// no stable provider ID; identity is derived downstream from content.
// Immutable once fetched.
type Posting struct {
	Title          string  `json:"job_title,omitempty"`
	Employer       string  `json:"employer_name,omitempty"`
	Description    string  `json:"job_description,omitempty"`
	City           string  `json:"job_city,omitempty"`
	State          string  `json:"job_state,omitempty"`
	Country        string  `json:"job_country,omitempty"`
	EmploymentType string  `json:"job_employment_type,omitempty"`
	IsRemote       bool    `json:"job_is_remote,omitempty"`
	SalaryMin      float64 `json:"job_min_salary,omitempty"`
	SalaryMax      float64 `json:"job_max_salary,omitempty"`
	PostedAt       string  `json:"job_posted_at_datetime_utc,omitempty"`
	ApplyLink      string  `json:"job_apply_link,omitempty"`
}

// Postings is a batch of postings in the order the API returned them.
type Postings struct {
	Items []*Posting
}

// Location joins the available location parts into one display string.
func (p *Posting) Location() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.City, p.State, p.Country} {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 && p.IsRemote {
		return "Remote"
	}
	return strings.Join(parts, ", ")
}

func (p *Postings) Len() int {
	return len(p.Items)
}

// ReportByEmployer groups a short per-posting summary under each employer.
func (p *Postings) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range p.Items {
		entry := map[string]string{
			"title":    posting.Title,
			"location": posting.Location(),
			"link":     posting.ApplyLink,
		}
		if posting.SalaryMin > 0 || posting.SalaryMax > 0 {
			entry["salary"] = fmt.Sprintf("%.0f-%.0f", posting.SalaryMin, posting.SalaryMax)
		}
		report[posting.Employer] = append(report[posting.Employer], entry)
	}
	return report
}

// DumpToTmpFile writes the batch as indented JSON to a temporary file and
// returns its path.
func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
