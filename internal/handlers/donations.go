package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"donatehub/api/internal/service"
)

type donationListData struct {
	Data []donationResponse `json:"data"`
	Meta service.PageMeta   `json:"meta"`
}

func listInputFromQuery(c *gin.Context) service.ListInput {
	input := service.ListInput{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		input.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		input.PerPage = perPage
	}
	return input
}

func (h HandlerSet) ListDonations(c *gin.Context) {
	page, err := h.donations.List(c.Request.Context(), listInputFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", donationListData{
		Data: newDonationResponses(page.Items),
		Meta: page.Meta,
	})
}

func (h HandlerSet) MyDonations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	page, err := h.donations.ListMine(c.Request.Context(), user, listInputFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", donationListData{
		Data: newDonationResponses(page.Items),
		Meta: page.Meta,
	})
}

func (h HandlerSet) GetDonation(c *gin.Context) {
	donation, err := h.donations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", newDonationResponse(donation))
}

type createDonationRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	// Status is deliberately absent: new listings are always active.
}

func (h HandlerSet) CreateDonation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	var req createDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	donation, err := h.donations.Create(c.Request.Context(), user, service.CreateDonationInput{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Description: req.Description,
		Location:    req.Location,
		Image:       req.Image,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Donation created successfully", newDonationResponse(donation))
}

type updateDonationRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Quantity    *int    `json:"quantity"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
	Status      *string `json:"status"`
}

func (h HandlerSet) UpdateDonation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	var req updateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	donation, err := h.donations.Update(c.Request.Context(), user, c.Param("id"), service.UpdateDonationInput{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Description: req.Description,
		Location:    req.Location,
		Image:       req.Image,
		Status:      req.Status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Donation updated successfully", newDonationResponse(donation))
}

func (h HandlerSet) DeleteDonation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	if err := h.donations.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Donation deleted successfully", nil)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h HandlerSet) UpdateDonationStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	donation, err := h.donations.UpdateStatus(c.Request.Context(), user, c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Donation status updated successfully", newDonationResponse(donation))
}

func (h HandlerSet) DonationStats(c *gin.Context) {
	stats, err := h.donations.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", stats)
}
