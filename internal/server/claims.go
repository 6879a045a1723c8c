package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	claimdomain "github.com/nphies/claims-service/internal/claim/domain"
	"github.com/nphies/claims-service/pkg/db/pagination"
)

const headerIdempotencyKey = "Idempotency-Key"

func (s *Server) SubmitClaim(c *gin.Context) {
	var req claimdomain.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey)); key != "" {
		req.IdempotencyKey = key
	}
	req.CreatedBy = strings.TrimSpace(c.GetHeader(headerRequestedBy))

	if !s.submitLimiter.Allow(c.Request.Context(), req.ProviderID) {
		c.Header("Retry-After", "1")
		AbortWithError(c, ErrRateLimited)
		return
	}

	result, err := s.claimsvc.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusCreated
	switch result.Status {
	case claimdomain.StatusDuplicate:
		status = http.StatusOK
	case claimdomain.StatusRejected:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (s *Server) GetClaim(c *gin.Context) {
	claim, err := s.claimsvc.Get(c.Request.Context(), c.Param("claimId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (s *Server) GetClaimStatus(c *gin.Context) {
	status, err := s.claimsvc.GetStatus(c.Request.Context(), c.Param("claimId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type updateClaimStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) UpdateClaimStatus(c *gin.Context) {
	var req updateClaimStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	target := claimdomain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	claim, err := s.claimsvc.Transition(c.Request.Context(), c.Param("claimId"), target)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (s *Server) ReprocessClaim(c *gin.Context) {
	result, err := s.claimsvc.Reprocess(c.Request.Context(), c.Param("claimId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ListClaimsByProvider(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.claimsvc.ListByProvider(c.Request.Context(), claimdomain.ListClaimsRequest{
		ProviderID: c.Param("providerId"),
		Status:     strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Page:       page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListClaimsByMember(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.claimsvc.ListByMember(c.Request.Context(), claimdomain.ListClaimsRequest{
		MemberID: c.Param("memberId"),
		Status:   strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Page:     page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
