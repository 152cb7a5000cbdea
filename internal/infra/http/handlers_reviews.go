package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tessera/internal/domain"
	"tessera/internal/usecase"
)

type createReviewRequest struct {
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewerID string `json:"reviewer_id"`

	// Optional explicit identity overrides; unparsable values fall back
	// to the resolved caller identity.
	CustomerID   string `json:"customer_id"`
	UserID       string `json:"user_id"`
	CreateUserID string `json:"create_user_id"`
	UpdateUserID string `json:"update_user_id"`
}

type updateReviewRequest struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Rating *int    `json:"rating" binding:"omitempty,min=1,max=5"`

	CustomerID   string `json:"customer_id"`
	UserID       string `json:"user_id"`
	UpdateUserID string `json:"update_user_id"`
}

type reviewResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body,omitempty"`
	Rating     int    `json:"rating"`
	ReviewerID string `json:"reviewer_id,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`

	AuthUserName     string `json:"auth_user_name,omitempty"`
	AuthCustomerName string `json:"auth_customer_name,omitempty"`
	CreateUserName   string `json:"create_user_name,omitempty"`
	UpdateUserName   string `json:"update_user_name,omitempty"`
	ReviewerName     string `json:"reviewer_name,omitempty"`
}

type reviewListResponse struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
	Items    []reviewResponse `json:"items"`
}

func (s *Server) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	caller := CallerIdentity(c)
	eff := usecase.ResolveCreateIdentity(usecase.CreateIdentityHints{
		CustomerID:   req.CustomerID,
		UserID:       req.UserID,
		CreateUserID: req.CreateUserID,
		UpdateUserID: req.UpdateUserID,
	}, caller)

	review := domain.Review{
		Title:          req.Title,
		Body:           req.Body,
		Rating:         req.Rating,
		ReviewerID:     domain.ParseID(req.ReviewerID),
		AuthUserID:     eff.UserID,
		AuthCustomerID: eff.CustomerID,
		CreateUserID:   eff.CreateUserID,
		UpdateUserID:   eff.UpdateUserID,
	}
	if err := s.reviews.Create(c.Request.Context(), &review); err != nil {
		s.log.WithError(err).Error("create review")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, s.project(c, []domain.Review{review})[0])
}

func (s *Server) listReviews(c *gin.Context) {
	caller := CallerIdentity(c)
	page, size := usecase.NormalizePage(queryInt(c, "page"), queryInt(c, "page_size"))

	filter := domain.ReviewFilter{
		Caller:     caller,
		Policy:     s.decidePolicy(c, caller),
		ReviewerID: domain.ParseID(c.Query("reviewer_id")),
		MinRating:  queryInt(c, "min_rating"),
		Search:     c.Query("q"),
	}
	reviews, total, err := s.reviews.List(c.Request.Context(), filter, page, size)
	if err != nil {
		s.log.WithError(err).Error("list reviews")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, reviewListResponse{
		Page:     page,
		PageSize: size,
		Total:    total,
		Items:    s.project(c, reviews),
	})
}

func (s *Server) getReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid identifier")
		return
	}
	caller := CallerIdentity(c)
	review, err := s.reviews.GetByID(c.Request.Context(), caller, s.decidePolicy(c, caller), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(c)
			return
		}
		s.log.WithError(err).Error("get review")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, s.project(c, []domain.Review{*review})[0])
}

func (s *Server) updateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid identifier")
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	caller := CallerIdentity(c)
	eff := usecase.ResolveUpdateIdentity(usecase.UpdateIdentityHints{
		CustomerID:   req.CustomerID,
		UserID:       req.UserID,
		UpdateUserID: req.UpdateUserID,
	}, caller)

	review, err := s.reviews.Update(c.Request.Context(), caller, s.decidePolicy(c, caller), id, domain.ReviewUpdate{
		Title:    req.Title,
		Body:     req.Body,
		Rating:   req.Rating,
		Identity: eff,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(c)
			return
		}
		s.log.WithError(err).Error("update review")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, s.project(c, []domain.Review{*review})[0])
}

func (s *Server) deleteReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid identifier")
		return
	}
	caller := CallerIdentity(c)
	eff := usecase.ResolveUpdateIdentity(usecase.UpdateIdentityHints{}, caller)
	err = s.reviews.SoftDelete(c.Request.Context(), caller, s.decidePolicy(c, caller), id, eff.UpdateUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(c)
			return
		}
		s.log.WithError(err).Error("delete review")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

// project builds the response records, resolving every referenced audit
// id in one enrichment pass.
func (s *Server) project(c *gin.Context, reviews []domain.Review) []reviewResponse {
	var names map[uuid.UUID]domain.DisplayIdentity
	if s.enricher != nil {
		owned := make([]domain.Owned, 0, len(reviews))
		var reviewers []uuid.UUID
		for i := range reviews {
			owned = append(owned, &reviews[i])
			if reviews[i].ReviewerID != nil {
				reviewers = append(reviewers, *reviews[i].ReviewerID)
			}
		}
		names = s.enricher.Enrich(c.Request.Context(), owned, reviewers...)
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp := reviewResponse{
			ID:        review.ID.String(),
			Title:     review.Title,
			Body:      review.Body,
			Rating:    review.Rating,
			CreatedAt: review.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: review.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if review.ReviewerID != nil {
			resp.ReviewerID = review.ReviewerID.String()
		}
		if names != nil {
			if review.AuthUserID != nil {
				display := names[*review.AuthUserID]
				resp.AuthUserName = display.UserName
				resp.AuthCustomerName = display.CustomerName
			}
			if review.CreateUserID != nil {
				resp.CreateUserName = names[*review.CreateUserID].UserName
			}
			if review.UpdateUserID != nil {
				resp.UpdateUserName = names[*review.UpdateUserID].UserName
			}
			if review.ReviewerID != nil {
				resp.ReviewerName = names[*review.ReviewerID].UserName
			}
		}
		out = append(out, resp)
	}
	return out
}

func queryInt(c *gin.Context, key string) int {
	value := c.Query(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
