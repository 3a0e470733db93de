package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"review-desk/dto"
	"review-desk/repositories"
	"review-desk/services"
)

// SubmitHandler godoc
// @Summary      Submit a review
// @Description  Validate, enrich and persist one review submission
// @Tags         submissions
// @Accept       json
// @Param        submission  body  dto.SubmitRequest  true  "Rating and review text"
// @Produce      json
// @Success      201  {object}  dto.SubmitResponse
// @Failure      400  {object}  map[string]string
// @Router       /submissions [post]
func SubmitHandler(svc *services.SubmissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := svc.Submit(c.Request.Context(), services.SubmitInput{
			Rating: req.Rating,
			Review: req.Review,
		})
		if err != nil {
			if errors.Is(err, services.ErrEmptyReview) || errors.Is(err, services.ErrInvalidRating) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, dto.NewSubmitResponse(result))
	}
}

// ListSubmissionsHandler godoc
// @Summary      List submissions
// @Description  List all submissions in insertion order
// @Tags         submissions
// @Produce      json
// @Success      200  {array}  dto.SubmissionDTO
// @Router       /submissions [get]
func ListSubmissionsHandler(svc *services.SubmissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]dto.SubmissionDTO, 0, len(items))
		for _, s := range items {
			out = append(out, dto.NewSubmissionDTO(s))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetSubmissionHandler godoc
// @Summary      Get submission by id
// @Description  Get a single submission by its identity token
// @Tags         submissions
// @Param        id   path   string  true  "Submission id"
// @Produce      json
// @Success      200  {object}  dto.SubmissionDTO
// @Failure      404  {object}  map[string]string
// @Router       /submissions/{id} [get]
func GetSubmissionHandler(svc *services.SubmissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.NewSubmissionDTO(*sub))
	}
}

// RerunSubmissionHandler godoc
// @Summary      Re-run AI artifacts
// @Description  Regenerate summary and actions for one submission; only fields whose regeneration succeeded are replaced
// @Tags         submissions
// @Param        id   path   string  true  "Submission id"
// @Produce      json
// @Success      200  {object}  dto.SubmissionDTO
// @Failure      404  {object}  map[string]string
// @Router       /submissions/{id}/rerun [post]
func RerunSubmissionHandler(svc *services.SubmissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Rerun(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.NewSubmissionDTO(*sub))
	}
}

// StatsHandler godoc
// @Summary      Submission aggregates
// @Description  Totals, average rating, per-star distribution and latest summaries
// @Tags         submissions
// @Produce      json
// @Success      200  {object}  services.Stats
// @Router       /submissions/stats [get]
func StatsHandler(svc *services.SubmissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
