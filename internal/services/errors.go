package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/collabmatch/collabmatch/pkg/errors"
)

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)

	// ErrEntityNotFound indicates the requested team or project does not exist.
	ErrEntityNotFound = apperrors.New("ENTITY_NOT_FOUND", "Team or project not found", http.StatusNotFound)
	// ErrEntityNotOpen signals a lifecycle operation against a completed or cancelled entity.
	ErrEntityNotOpen = apperrors.New("ENTITY_NOT_OPEN", "Team or project is no longer open", http.StatusBadRequest)
	// ErrEntityFull signals that no open slots remain.
	ErrEntityFull = apperrors.New("ENTITY_FULL", "No open slots remain", http.StatusBadRequest)

	// ErrRequestNotFound indicates the join request does not exist.
	ErrRequestNotFound = apperrors.New("REQUEST_NOT_FOUND", "Request not found", http.StatusNotFound)
	// ErrRequestAlreadyProcessed signals the request has already left the pending state.
	ErrRequestAlreadyProcessed = apperrors.New("REQUEST_ALREADY_PROCESSED", "Request has already been processed", http.StatusBadRequest)
	// ErrRequestOrphaned signals the request references an entity that no longer exists.
	ErrRequestOrphaned = apperrors.New("REQUEST_ORPHANED", "Request is not linked to a valid team or project", http.StatusBadRequest)
	// ErrDuplicateRequest signals an open request already exists for the sender and entity.
	ErrDuplicateRequest = apperrors.New("REQUEST_DUPLICATE", "An open request already exists", http.StatusConflict)
	// ErrOwnEntityRequest rejects a request from the entity's own lead.
	ErrOwnEntityRequest = apperrors.New("REQUEST_OWN_ENTITY", "Cannot request to join your own team or project", http.StatusBadRequest)

	// ErrMembershipExists signals the user already belongs to the entity.
	ErrMembershipExists = apperrors.New("MEMBERSHIP_EXISTS", "User is already a member", http.StatusConflict)
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
