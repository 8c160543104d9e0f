package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amara/scholarfind/internal/auth"
	"github.com/amara/scholarfind/internal/db"
	"github.com/amara/scholarfind/internal/models"
)

type blogList struct {
	Posts []models.BlogPost `json:"posts"`
	Total int               `json:"total"`
}

// handleListBlogPosts merges the static article bodies with the live
// counters. Counter reads never fail the listing; a post without a
// counter row just shows zeros.
func (s *Server) handleListBlogPosts(c echo.Context) error {
	ctx := c.Request().Context()
	posts := s.Index.BlogPosts()

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	counters, err := s.Store.GetBlogCounters(ctx, ids)
	if err != nil {
		c.Logger().Errorf("Failed to load blog counters: %v", err)
		counters = map[string]db.BlogCounters{}
	}
	for i := range posts {
		if counter, ok := counters[posts[i].ID]; ok {
			posts[i].Upvotes = counter.Upvotes
			posts[i].Views = counter.Views
		}
	}

	if userID, ok := auth.OptionalUserID(c); ok {
		interactions, err := s.Store.ListInteractions(ctx, userID)
		if err != nil {
			c.Logger().Errorf("Failed to load blog interactions: %v", err)
		} else {
			for i := range posts {
				posts[i].HasUpvoted = interactions[posts[i].ID].HasUpvoted
			}
		}
	}

	return c.JSON(http.StatusOK, blogList{Posts: posts, Total: len(posts)})
}

type upvoteResponse struct {
	PostID  string `json:"post_id"`
	Upvoted bool   `json:"upvoted"`
	Upvotes int    `json:"upvotes"`
}

func (s *Server) handleToggleUpvote(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	postID := c.Param("id")
	if _, ok := s.Index.BlogPost(postID); !ok {
		return apiError(c, http.StatusNotFound, "not-found", "Blog post not found")
	}

	upvoted, err := s.Store.ToggleUpvote(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apiError(c, http.StatusNotFound, "not-found", "Blog post not found")
		}
		return apiError(c, http.StatusInternalServerError, "blogs/upvote-failed", "Failed to toggle upvote")
	}

	counters, err := s.Store.GetBlogCounters(ctx, []string{postID})
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "blogs/upvote-failed", "Failed to read upvote count")
	}

	return c.JSON(http.StatusOK, upvoteResponse{
		PostID:  postID,
		Upvoted: upvoted,
		Upvotes: counters[postID].Upvotes,
	})
}

type viewResponse struct {
	PostID  string `json:"post_id"`
	Counted bool   `json:"counted"`
	Views   int    `json:"views"`
}

func (s *Server) handleRecordView(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	postID := c.Param("id")
	if _, ok := s.Index.BlogPost(postID); !ok {
		return apiError(c, http.StatusNotFound, "not-found", "Blog post not found")
	}

	counted, err := s.Store.RecordView(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apiError(c, http.StatusNotFound, "not-found", "Blog post not found")
		}
		return apiError(c, http.StatusInternalServerError, "blogs/view-failed", "Failed to record view")
	}

	counters, err := s.Store.GetBlogCounters(ctx, []string{postID})
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "blogs/view-failed", "Failed to read view count")
	}

	return c.JSON(http.StatusOK, viewResponse{
		PostID:  postID,
		Counted: counted,
		Views:   counters[postID].Views,
	})
}

func (s *Server) handleUpvotedCount(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	count, err := s.Store.CountUpvoted(c.Request().Context(), userID)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "blogs/count-failed", "Failed to count upvoted posts")
	}

	return c.JSON(http.StatusOK, map[string]int{"count": count})
}
