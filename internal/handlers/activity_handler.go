package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/pagination"
	"centavo/internal/services"
)

// ActivityHandler handles shared-activity requests.
type ActivityHandler struct {
	activityService services.ActivityServicer
	auditService    services.AuditServicer
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService services.ActivityServicer, auditService services.AuditServicer) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, auditService: auditService}
}

// CreateActivityRequest represents the payload for creating a shared activity.
type CreateActivityRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// AddMemberRequest represents the payload for enrolling a member.
type AddMemberRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Nickname string `json:"nickname" binding:"max=100"`
}

// CreateActivity handles the creation of a shared activity.
// @Summary     Create an activity
// @Description Create a shared activity owned by the authenticated user
// @Tags        activities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateActivityRequest true "Activity details"
// @Success     201 {object} models.SharedActivity "Activity created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities [post]
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	activity, err := h.activityService.CreateActivity(userID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ACTIVITY", "activity", activity.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"activity": activity})
}

// GetActivities handles listing the user's shared activities.
// @Summary     Get activities
// @Description Get a paginated list of activities the user owns or participates in
// @Tags        activities
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SharedActivity] "Paginated activities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities [get]
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	activities, err := h.activityService.GetUserActivities(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

// GetActivity handles retrieving a single shared activity.
// @Summary     Get an activity
// @Description Get a shared activity by ID, members included
// @Tags        activities
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Activity ID"
// @Success     200 {object} models.SharedActivity "Activity"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities/{id} [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	activity, err := h.activityService.GetActivityByID(userID, activityID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// DeleteActivity handles deleting a shared activity.
// @Summary     Delete an activity
// @Description Delete a shared activity, its memberships, and its expenses
// @Tags        activities
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Activity ID"
// @Success     200 {object} map[string]string "Activity deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.activityService.DeleteActivity(userID, activityID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ACTIVITY", "activity", activityID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted successfully"})
}

// AddMember handles enrolling a member into a shared activity.
// @Summary     Add a member
// @Description Enroll a registered user, looked up by email, into an activity
// @Tags        activities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Activity ID"
// @Param       request body AddMemberRequest true "Member details"
// @Success     201 {object} models.ActivityMember "Member added"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity or user not found"
// @Failure     409 {object} ErrorResponse "Already a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities/{id}/members [post]
func (h *ActivityHandler) AddMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.activityService.AddMember(userID, activityID, req.Email, req.Nickname)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_MEMBER", "activity_member", member.ID, c.ClientIP(),
		map[string]interface{}{"activity_id": activityID})

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// GetMembers handles listing an activity's members.
// @Summary     Get members
// @Description Get a shared activity's members
// @Tags        activities
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Activity ID"
// @Success     200 {array} models.ActivityMember "Members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities/{id}/members [get]
func (h *ActivityHandler) GetMembers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	members, err := h.activityService.GetMembers(userID, activityID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// RemoveMember handles removing a member from a shared activity.
// @Summary     Remove a member
// @Description Remove a membership from an activity
// @Tags        activities
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Activity ID"
// @Param       member_id path string true "Member ID"
// @Success     200 {object} map[string]string "Member removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity or member not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities/{id}/members/{member_id} [delete]
func (h *ActivityHandler) RemoveMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "member_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.activityService.RemoveMember(userID, activityID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REMOVE_MEMBER", "activity_member", memberID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
