package jobsearch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const searchPath = "/search"

// SearchParams describes one search. Query is required; the rest narrows the
// result set.
type SearchParams struct {
	Query         string `yaml:"query" mapstructure:"query"`
	Location      string `yaml:"location" mapstructure:"location"`
	IncludeRemote bool   `yaml:"include_remote" mapstructure:"include_remote"`
	// DatePostedMax keeps only postings newer than this many days.
	DatePostedMax int `yaml:"date_posted_max" mapstructure:"date_posted_max"`
	// Pages is how many result pages to fetch. Defaults to 1.
	Pages int `yaml:"pages" mapstructure:"pages"`
}

type searchResponse struct {
	Status string `json:"status"`
	Data   []any  `json:"data"`
}

func (c *Client) search(params *SearchParams) (*Postings, error) {
	if params == nil || strings.TrimSpace(params.Query) == "" {
		return nil, fmt.Errorf("search query is required")
	}

	pages := params.Pages
	if pages < 1 {
		pages = 1
	}

	var items []any
	for page := 1; page <= pages; page++ {
		var response searchResponse
		if err := c.getJSON(searchPath, buildParams(params, page), &response); err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}

		c.logger.Debug("got search response",
			zap.Int("page", page),
			zap.Int("items", len(response.Data)),
		)

		items = append(items, response.Data...)
		if len(response.Data) == 0 {
			break
		}
	}

	var postings []*Posting
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &postings,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding postings: %w", err)
	}

	return &Postings{Items: postings}, nil
}

func buildParams(params *SearchParams, page int) url.Values {
	query := strings.TrimSpace(params.Query)
	if location := strings.TrimSpace(params.Location); location != "" {
		query = fmt.Sprintf("%s in %s", query, location)
		if params.IncludeRemote {
			query += " OR remote"
		}
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	if params.DatePostedMax > 0 {
		q.Set("date_posted", fmt.Sprintf("%ddays", params.DatePostedMax))
	}

	return q
}
