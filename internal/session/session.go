package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/photoid-studio/internal"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
	"github.com/frahmantamala/photoid-studio/internal/user"
)

// Authority holds the single active operator session for this process.
// It keeps a read-mostly copy of the logged-in user and re-syncs it
// through the user repository on every mutation; the store stays the only
// source of truth. The mutex covers UI reads racing background history
// writers.
type Authority struct {
	users  user.Repository
	logger *slog.Logger

	mu        sync.Mutex
	current   *userDatamodel.User
	sessionID string
	startedAt time.Time
}

// Info is a point-in-time snapshot for status displays.
type Info struct {
	LoggedIn  bool
	User      *userDatamodel.User
	SessionID string
	StartedAt time.Time
	Duration  time.Duration
}

func NewAuthority(users user.Repository, logger *slog.Logger) *Authority {
	return &Authority{users: users, logger: logger}
}

// Login activates a session for an authenticated user. A second login
// without an intervening logout is rejected rather than silently
// replacing the active session. The last_access stamp goes through the
// store before the session becomes observable.
func (a *Authority) Login(u *userDatamodel.User) error {
	if u == nil || u.NPK == "" {
		return internal.NewValidationError("login requires a user with non-empty npk", internal.ErrCodeValidationFailed)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("login %s: %w", u.NPK, internal.ErrInvalidRole)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		return fmt.Errorf("login %s while %s is active: %w", u.NPK, a.current.NPK, internal.ErrSessionActive)
	}

	now := time.Now()
	refreshed, err := a.users.Update(u.NPK, user.UpdateUserDTO{LastAccess: &now})
	if err != nil {
		a.logger.Error("login failed to stamp last_access", "error", err, "npk", u.NPK)
		return err
	}

	snapshot := *refreshed
	a.current = &snapshot
	a.sessionID = uuid.NewString()
	a.startedAt = now

	a.logger.Info("session started", "npk", snapshot.NPK, "role", snapshot.Role, "session_id", a.sessionID)
	return nil
}

// Logout clears all session state. Calling it with no active session is a
// no-op, not an error.
func (a *Authority) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		a.logger.Info("session ended", "npk", a.current.NPK, "session_id", a.sessionID)
	}

	a.current = nil
	a.sessionID = ""
	a.startedAt = time.Time{}
}

// CurrentUser returns a copy of the active user so callers cannot mutate
// session state behind the authority's back.
func (a *Authority) CurrentUser() (*userDatamodel.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return nil, internal.ErrNoActiveSession
	}
	snapshot := *a.current
	return &snapshot, nil
}

// CanTakePhotos is true for any active session regardless of role.
func (a *Authority) CanTakePhotos() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current != nil
}

// IsAdmin is true only for an active admin session.
func (a *Authority) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current != nil && a.current.Role == userDatamodel.RoleAdmin
}

// CanAccessAdmin is true for admin and supervisor sessions.
func (a *Authority) CanAccessAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return false
	}
	return a.current.Role == userDatamodel.RoleAdmin || a.current.Role == userDatamodel.RoleSupervisor
}

// UpdatePhotoInfo persists the capture output filenames on the logged-in
// user. An empty cardFilename leaves the stored card untouched. The
// cached user refreshes only after the store write succeeds, so a failed
// write never leaves the session claiming state the store does not hold.
func (a *Authority) UpdatePhotoInfo(photoFilename, cardFilename string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return fmt.Errorf("update photo info: %w", internal.ErrNoActiveSession)
	}

	now := time.Now()
	dto := user.UpdateUserDTO{
		PhotoFilename: &photoFilename,
		LastTakePhoto: &now,
	}
	if cardFilename != "" {
		dto.CardFilename = &cardFilename
	}

	refreshed, err := a.users.Update(a.current.NPK, dto)
	if err != nil {
		a.logger.Error("failed to update photo info", "error", err, "npk", a.current.NPK)
		return err
	}

	snapshot := *refreshed
	a.current = &snapshot

	a.logger.Info("photo info updated", "npk", snapshot.NPK, "photo_filename", photoFilename)
	return nil
}

// SessionID returns the identifier of the active session, empty when
// logged out.
func (a *Authority) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

// Duration reports how long the active session has run; zero when logged
// out.
func (a *Authority) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return 0
	}
	return time.Since(a.startedAt)
}

// DisplayInfo formats the operator line shown in the status bar.
func (a *Authority) DisplayInfo() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return "Not logged in"
	}
	return fmt.Sprintf("%s (%s) - %s", a.current.Name, a.current.NPK, a.current.Role)
}

// CurrentInfo snapshots the whole session for diagnostics screens.
func (a *Authority) CurrentInfo() Info {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return Info{}
	}
	snapshot := *a.current
	return Info{
		LoggedIn:  true,
		User:      &snapshot,
		SessionID: a.sessionID,
		StartedAt: a.startedAt,
		Duration:  time.Since(a.startedAt),
	}
}
