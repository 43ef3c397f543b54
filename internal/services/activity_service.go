package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// activityService handles shared-activity business logic.
type activityService struct {
	db *gorm.DB
}

// NewActivityService creates a new ActivityServicer.
func NewActivityService(db *gorm.DB) ActivityServicer {
	return &activityService{db: db}
}

// CreateActivity creates a shared activity owned by the user. The owner is
// also enrolled as its first member.
func (s *activityService) CreateActivity(ownerID, name, description string) (*models.SharedActivity, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "activity name is required")
	}

	activity := &models.SharedActivity{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(activity).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		member := &models.ActivityMember{
			ActivityID: activity.ID,
			UserID:     ownerID,
		}
		if err := tx.Create(member).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		activity.Members = []models.ActivityMember{*member}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// GetUserActivities returns a paginated list of activities the user owns or
// is a member of.
func (s *activityService) GetUserActivities(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SharedActivity], error) {
	page.Defaults()

	base := s.db.Model(&models.SharedActivity{}).
		Where("owner_id = ? OR id IN (?)", userID,
			s.db.Model(&models.ActivityMember{}).Select("activity_id").Where("user_id = ?", userID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var activities []models.SharedActivity
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at").Find(&activities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(activities, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetActivityByID returns an activity if the user owns it or is a member.
func (s *activityService) GetActivityByID(userID, activityID string) (*models.SharedActivity, error) {
	var activity models.SharedActivity
	if err := s.db.Preload("Members").Where("id = ?", activityID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if activity.OwnerID != userID && !isMember(activity.Members, userID) {
		return nil, apperrors.ErrActivityNotFound
	}
	return &activity, nil
}

// DeleteActivity removes an activity, its memberships, and its expenses.
// Only the owner can delete.
func (s *activityService) DeleteActivity(userID, activityID string) error {
	var activity models.SharedActivity
	if err := s.db.Where("id = ? AND owner_id = ?", activityID, userID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrActivityNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.Expense{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.ActivityMember{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&activity).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddMember enrolls a registered user, looked up by email, into an activity.
// Only the owner can add members.
func (s *activityService) AddMember(userID, activityID, memberEmail, nickname string) (*models.ActivityMember, error) {
	if err := s.checkOwnership(userID, activityID); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(memberEmail), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.ActivityMember{}).
		Where("activity_id = ? AND user_id = ?", activityID, user.ID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateMember
	}

	member := &models.ActivityMember{
		ActivityID: activityID,
		UserID:     user.ID,
		Nickname:   nickname,
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member, nil
}

// RemoveMember removes a membership. Only the owner can remove members, and
// the owner's own membership cannot be removed.
func (s *activityService) RemoveMember(userID, activityID, memberID string) error {
	if err := s.checkOwnership(userID, activityID); err != nil {
		return err
	}

	var member models.ActivityMember
	if err := s.db.Where("id = ? AND activity_id = ?", memberID, activityID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if member.UserID == userID {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "the owner cannot leave their own activity")
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMembers lists an activity's members, visible to any participant.
func (s *activityService) GetMembers(userID, activityID string) ([]models.ActivityMember, error) {
	activity, err := s.GetActivityByID(userID, activityID)
	if err != nil {
		return nil, err
	}

	var members []models.ActivityMember
	if err := s.db.Preload("User").Where("activity_id = ?", activity.ID).
		Order("created_at").Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

func (s *activityService) checkOwnership(userID, activityID string) error {
	var count int64
	if err := s.db.Model(&models.SharedActivity{}).
		Where("id = ? AND owner_id = ?", activityID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrActivityNotFound
	}
	return nil
}

func isMember(members []models.ActivityMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
