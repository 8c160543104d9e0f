package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/amara/scholarfind/internal/models"
)

// Source directory names under the content root.
const (
	opportunitiesDir = "opportunities"
	blogDir          = "blog"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// opportunityFront is the frontmatter schema for listing documents.
type opportunityFront struct {
	Title           string   `yaml:"title"`
	Organization    string   `yaml:"organization"`
	Location        string   `yaml:"location"`
	Deadline        string   `yaml:"deadline"`
	FundingType     string   `yaml:"funding_type"`
	LevelOfStudy    []string `yaml:"level_of_study"`
	SubjectAreas    []string `yaml:"subject_areas"`
	Eligibility     string   `yaml:"eligibility"`
	Benefits        string   `yaml:"benefits"`
	ApplicationLink string   `yaml:"application_link"`
	Type            string   `yaml:"type"`
	IsActive        *bool    `yaml:"is_active"`
}

// blogFront is the frontmatter schema for blog documents.
type blogFront struct {
	Title         string   `yaml:"title"`
	Excerpt       string   `yaml:"excerpt"`
	Author        string   `yaml:"author"`
	PublishedDate string   `yaml:"published_date"`
	ReadTime      string   `yaml:"read_time"`
	Category      string   `yaml:"category"`
	Tags          []string `yaml:"tags"`
	ImageURL      string   `yaml:"image_url"`
	IsPublished   *bool    `yaml:"is_published"`
}

// BuildDir reads every markdown document under contentDir and assembles
// the consolidated index. The document id is the filename without its
// extension; the markdown body is rendered to HTML and sanitized.
func BuildDir(contentDir string) (*File, error) {
	out := &File{}

	oppFiles, err := listMarkdown(filepath.Join(contentDir, opportunitiesDir))
	if err != nil {
		return nil, err
	}
	for _, path := range oppFiles {
		opp, err := buildOpportunity(path)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", path, err)
		}
		out.Opportunities = append(out.Opportunities, opp)
	}

	blogFiles, err := listMarkdown(filepath.Join(contentDir, blogDir))
	if err != nil {
		return nil, err
	}
	for _, path := range blogFiles {
		post, err := buildBlogPost(path)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", path, err)
		}
		out.Blog = append(out.Blog, post)
	}

	return out, nil
}

func listMarkdown(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading content dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func buildOpportunity(path string) (models.Opportunity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Opportunity{}, err
	}

	front, body, err := SplitFrontmatter(raw)
	if err != nil {
		return models.Opportunity{}, err
	}

	var fm opportunityFront
	if err := yaml.Unmarshal(front, &fm); err != nil {
		return models.Opportunity{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	html, err := renderMarkdown(body)
	if err != nil {
		return models.Opportunity{}, err
	}

	active := true
	if fm.IsActive != nil {
		active = *fm.IsActive
	}

	return models.Opportunity{
		ID:              docID(path),
		Title:           fm.Title,
		Organization:    fm.Organization,
		Location:        fm.Location,
		Deadline:        fm.Deadline,
		FundingType:     fm.FundingType,
		LevelOfStudy:    fm.LevelOfStudy,
		SubjectAreas:    fm.SubjectAreas,
		Description:     html,
		Eligibility:     fm.Eligibility,
		Benefits:        fm.Benefits,
		ApplicationLink: fm.ApplicationLink,
		Type:            fm.Type,
		IsActive:        active,
	}, nil
}

func buildBlogPost(path string) (models.BlogPost, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.BlogPost{}, err
	}

	front, body, err := SplitFrontmatter(raw)
	if err != nil {
		return models.BlogPost{}, err
	}

	var fm blogFront
	if err := yaml.Unmarshal(front, &fm); err != nil {
		return models.BlogPost{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	html, err := renderMarkdown(body)
	if err != nil {
		return models.BlogPost{}, err
	}

	published := true
	if fm.IsPublished != nil {
		published = *fm.IsPublished
	}

	return models.BlogPost{
		ID:            docID(path),
		Title:         fm.Title,
		Excerpt:       fm.Excerpt,
		Content:       html,
		Author:        fm.Author,
		PublishedDate: fm.PublishedDate,
		ReadTime:      fm.ReadTime,
		Category:      fm.Category,
		Tags:          fm.Tags,
		ImageURL:      fm.ImageURL,
		IsPublished:   published,
	}, nil
}

// SplitFrontmatter separates a "---" delimited YAML header from the
// markdown body. A document without a header yields empty frontmatter.
func SplitFrontmatter(raw []byte) (front, body []byte, err error) {
	const delim = "---"

	s := strings.TrimPrefix(string(raw), "\ufeff")
	if !strings.HasPrefix(s, delim) {
		return nil, raw, nil
	}

	rest := s[len(delim):]
	if !strings.HasPrefix(rest, "\n") && !strings.HasPrefix(rest, "\r\n") {
		return nil, raw, nil
	}

	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated frontmatter block")
	}

	front = []byte(rest[:end])
	after := rest[end+len(delim)+1:]
	after = strings.TrimLeft(after, "\r\n")
	return front, []byte(after), nil
}

// renderMarkdown converts markdown to sanitized HTML. UGCPolicy keeps
// links, images and tables but strips scripts and iframes.
func renderMarkdown(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return bluemonday.UGCPolicy().Sanitize(buf.String()), nil
}

func docID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}
