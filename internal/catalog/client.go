package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Client reads the catalog from a running catalog service.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

type CourseList struct {
	Items []Course `json:"items"`
	Total int      `json:"total"`
}

func (c *Client) Courses(ctx context.Context, f Filters) (CourseList, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("query", f.Query)
	}
	if f.Grade != GradeAll {
		q.Set("grade", strconv.Itoa(f.Grade))
	}
	if f.Subject != "" && f.Subject != SubjectAll {
		q.Set("subject", string(f.Subject))
	}
	if f.Progress != "" && f.Progress != ProgressAll {
		q.Set("progress", string(f.Progress))
	}

	u := c.BaseURL + "/courses"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var out CourseList
	if err := c.getJSON(ctx, u, &out); err != nil {
		return CourseList{}, err
	}
	return out, nil
}

func (c *Client) Course(ctx context.Context, id string) (Course, error) {
	var out Course
	if err := c.getJSON(ctx, fmt.Sprintf("%s/courses/%s", c.BaseURL, url.PathEscape(id)), &out); err != nil {
		return Course{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrCourseNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
