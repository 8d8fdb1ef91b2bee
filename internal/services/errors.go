package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/campusfind/lostfound/pkg/errors"
)

// Business-rule errors shared across the lost-and-found services.
var (
	ErrItemNotFound     = apperrors.New("ITEM_NOT_FOUND", "Item not found", http.StatusNotFound)
	ErrClaimNotFound    = apperrors.New("CLAIM_NOT_FOUND", "Claim not found", http.StatusNotFound)
	ErrPickupNotFound   = apperrors.New("PICKUP_NOT_FOUND", "Pickup request not found", http.StatusNotFound)
	ErrCategoryNotFound = apperrors.New("CATEGORY_NOT_FOUND", "Category not found", http.StatusNotFound)
	ErrLocationNotFound = apperrors.New("LOCATION_NOT_FOUND", "Location not found", http.StatusNotFound)

	ErrNotificationNotFound = apperrors.New("NOTIFICATION_NOT_FOUND", "Notification not found", http.StatusNotFound)

	ErrSelfClaim      = apperrors.New("SELF_CLAIM_NOT_ALLOWED", "You cannot claim your own report", http.StatusUnprocessableEntity)
	ErrDuplicateClaim = apperrors.New("DUPLICATE_CLAIM", "You already filed a claim for this item", http.StatusUnprocessableEntity)
	ErrSelfPickup     = apperrors.New("SELF_PICKUP_NOT_ALLOWED", "You cannot pick up an item you reported lost", http.StatusUnprocessableEntity)

	ErrClaimAlreadyAccepted = apperrors.New("CLAIM_ALREADY_ACCEPTED", "Another claim for this item was already accepted", http.StatusConflict)
	ErrItemNotPending       = apperrors.New("ITEM_NOT_PENDING", "Item is already verified or being processed", http.StatusBadRequest)
	ErrCategoryInUse        = apperrors.New("CATEGORY_IN_USE", "Category is referenced by existing items", http.StatusConflict)
	ErrLocationInUse        = apperrors.New("LOCATION_IN_USE", "Location is referenced by existing items", http.StatusConflict)
	ErrRegistrationConflict = apperrors.New("REGISTRATION_CONFLICT", "NIM or email is already registered", http.StatusConflict)
	ErrDuplicateName        = apperrors.New("DUPLICATE_NAME", "An entry with this name already exists", http.StatusConflict)
)

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "constraint")
}
