// Package content holds the static content index: opportunity listings and
// blog posts assembled once at build time from markdown sources. The index
// is immutable after Load; every reader shares the same value.
package content

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/amara/scholarfind/internal/models"
)

// File is the on-disk shape of the consolidated index produced by the
// buildcontent tool.
type File struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Blog          []models.BlogPost    `json:"blog"`
}

type Index struct {
	opportunities []models.Opportunity
	blog          []models.BlogPost
	oppByID       map[string]int
	postByID      map[string]int
}

// Load reads a consolidated content file and builds the runtime index.
// Inactive and unpublished records are kept but hidden by the accessors.
func Load(r io.Reader) (*Index, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding content index: %w", err)
	}
	return FromFile(&f), nil
}

// LoadFile is Load from a path.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening content index: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// FromFile builds an index from an already-decoded content file.
func FromFile(f *File) *Index {
	idx := &Index{
		opportunities: f.Opportunities,
		blog:          f.Blog,
		oppByID:       make(map[string]int, len(f.Opportunities)),
		postByID:      make(map[string]int, len(f.Blog)),
	}
	for i, o := range idx.opportunities {
		idx.oppByID[o.ID] = i
	}
	for i, p := range idx.blog {
		idx.postByID[p.ID] = i
	}
	return idx
}

// Opportunities returns the active listings in index order. The returned
// slice is a copy; callers may sort or filter it freely.
func (idx *Index) Opportunities() []models.Opportunity {
	out := make([]models.Opportunity, 0, len(idx.opportunities))
	for _, o := range idx.opportunities {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out
}

// Opportunity looks up one active listing by id.
func (idx *Index) Opportunity(id string) (models.Opportunity, bool) {
	i, ok := idx.oppByID[id]
	if !ok || !idx.opportunities[i].IsActive {
		return models.Opportunity{}, false
	}
	return idx.opportunities[i], true
}

// BlogPosts returns the published posts in index order, as a copy.
func (idx *Index) BlogPosts() []models.BlogPost {
	out := make([]models.BlogPost, 0, len(idx.blog))
	for _, p := range idx.blog {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out
}

// BlogPost looks up one published post by id.
func (idx *Index) BlogPost(id string) (models.BlogPost, bool) {
	i, ok := idx.postByID[id]
	if !ok || !idx.blog[i].IsPublished {
		return models.BlogPost{}, false
	}
	return idx.blog[i], true
}

// BlogPostIDs lists the ids of all published posts.
func (idx *Index) BlogPostIDs() []string {
	ids := make([]string, 0, len(idx.blog))
	for _, p := range idx.blog {
		if p.IsPublished {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
