package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-locator/internal/models"
	"hospital-locator/internal/repository"
	"hospital-locator/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	maxCapabilityTags = 64
	// bcrypt rejects longer passwords; the limit is in bytes, not runes
	maxPasswordBytes = 72
)

type AccountService struct {
	store      AccountStore
	audit      AuditLogger
	tokens     *utils.TokenIssuer
	search     SearchInvalidator
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

func NewAccountService(
	store AccountStore,
	audit AuditLogger,
	tokens *utils.TokenIssuer,
	search SearchInvalidator,
	logger *zap.Logger,
	bcryptCost int,
) *AccountService {
	return &AccountService{
		store:      store,
		audit:      audit,
		tokens:     tokens,
		search:     search,
		logger:     logger,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// RegisterRequest is the self-registration payload
type RegisterRequest struct {
	HospitalName  string `json:"hospitalName" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Phone         string `json:"phone" validate:"required,max=32"`
	Address       string `json:"address" validate:"required,max=500"`
	LicenseNumber string `json:"licenseNumber" validate:"required,max=100"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
}

// ProfileUpdate carries the only profile fields a hospital may change
type ProfileUpdate struct {
	Phone   models.Field[string] `json:"phone"`
	Address models.Field[string] `json:"address"`
}

// CapabilitiesUpdate replaces whichever capability fields are present
type CapabilitiesUpdate struct {
	HasICU      models.Field[bool]     `json:"hasICU"`
	Specialists models.Field[[]string] `json:"specialists"`
	Equipment   models.Field[[]string] `json:"equipment"`
}

// Register creates an active account with default capabilities and the
// unset (0, 0) location.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AccountView, error) {
	req.HospitalName = strings.TrimSpace(req.HospitalName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, newValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	// Email is checked before license number
	if _, err := s.store.FindAccountByEmail(ctx, req.Email); err == nil {
		return nil, &ConflictError{Field: "email"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(s.logger, "check email", err)
	}
	if _, err := s.store.FindAccountByLicense(ctx, req.LicenseNumber); err == nil {
		return nil, &ConflictError{Field: "licenseNumber"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(s.logger, "check license number", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, ErrInternal
	}

	account := &models.HospitalAccount{
		Hospital: models.Hospital{
			Name:        req.HospitalName,
			Location:    models.NewGeoPoint(0, 0),
			HasICU:      false,
			Specialists: []string{},
			Equipment:   []string{},
		},
		Email:            req.Email,
		PasswordHash:     passwordHash,
		Phone:            req.Phone,
		Address:          req.Address,
		LicenseNumber:    req.LicenseNumber,
		IsActive:         true,
		RegistrationDate: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, &ConflictError{Field: dup.Field}
		}
		return nil, storeError(s.logger, "create account", err)
	}

	s.invalidateSearch()
	s.recordAudit(ctx, account.ID, "hospital_register",
		fmt.Sprintf("Hospital %s registered (license: %s)", account.Name, account.LicenseNumber))
	s.logger.Info("Hospital registered", zap.String("hospital_id", account.ID.Hex()))

	view := NewAccountView(account)
	return &view, nil
}

// Authenticate verifies credentials and issues an access token bound to the
// account email. Unknown email and wrong password fail identically.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*TokenResponse, error) {
	account, err := s.store.FindAccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError(s.logger, "find account for login", err)
	}

	if !utils.ComparePassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	accessToken, err := s.tokens.GenerateAccessToken(account.Email)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, ErrInternal
	}

	s.recordAudit(ctx, account.ID, "hospital_login", fmt.Sprintf("Hospital %s logged in", account.Name))

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.Expiry().Seconds()),
	}, nil
}

// Authorize validates a token and reloads its account. The account is
// re-checked on every call so deactivation takes effect immediately.
func (s *AccountService) Authorize(ctx context.Context, token string) (*models.HospitalAccount, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	account, err := s.store.FindAccountByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storeError(s.logger, "find account for token", err)
	}
	if !account.IsActive {
		return nil, ErrInvalidToken
	}
	return account, nil
}

// UpdateProfile changes phone and/or address. Blank values count as absent.
func (s *AccountService) UpdateProfile(ctx context.Context, account *models.HospitalAccount, req ProfileUpdate) (*AccountView, error) {
	update := models.AccountUpdate{}
	if v := strings.TrimSpace(req.Phone.Value); req.Phone.Present && v != "" {
		if err := validate.Var(v, "max=32"); err != nil {
			return nil, newValidationError("phone", "must be at most 32 long")
		}
		update.Phone = models.Set(v)
	}
	if v := strings.TrimSpace(req.Address.Value); req.Address.Present && v != "" {
		if err := validate.Var(v, "max=500"); err != nil {
			return nil, newValidationError("address", "must be at most 500 long")
		}
		update.Address = models.Set(v)
	}
	if update.IsEmpty() {
		return nil, newValidationError("body", "no valid fields to update")
	}

	updated, _, err := s.apply(ctx, account, update, "hospital_profile_update")
	if err != nil {
		return nil, err
	}
	view := NewAccountView(updated)
	return &view, nil
}

// UpdateLocation overwrites the account location with a validated point
func (s *AccountService) UpdateLocation(ctx context.Context, account *models.HospitalAccount, lat, lon float64) (*AccountView, error) {
	if err := validateStruct(coordinates{Lat: lat, Lon: lon}); err != nil {
		return nil, err
	}
	point := models.NewGeoPoint(lon, lat)
	if err := point.Validate(); err != nil {
		return nil, newValidationError("location", err.Error())
	}

	updated, _, err := s.apply(ctx, account, models.AccountUpdate{Location: models.Set(point)}, "hospital_location_update")
	if err != nil {
		return nil, err
	}
	view := NewAccountView(updated)
	return &view, nil
}

// UpdateCapabilities sets hasICU and replaces specialists/equipment when
// their keys are present. A present empty list clears the set.
func (s *AccountService) UpdateCapabilities(ctx context.Context, account *models.HospitalAccount, req CapabilitiesUpdate) (*CapabilitiesResult, error) {
	update := models.AccountUpdate{HasICU: req.HasICU}

	if req.Specialists.Present {
		tags, err := normalizeCapabilityTags("specialists", req.Specialists.Value)
		if err != nil {
			return nil, err
		}
		update.Specialists = models.Set(tags)
	}
	if req.Equipment.Present {
		tags, err := normalizeCapabilityTags("equipment", req.Equipment.Value)
		if err != nil {
			return nil, err
		}
		update.Equipment = models.Set(tags)
	}
	if update.IsEmpty() {
		return nil, newValidationError("body", "no capability fields provided")
	}

	updated, outcome, err := s.apply(ctx, account, update, "hospital_capabilities_update")
	if err != nil {
		return nil, err
	}
	return &CapabilitiesResult{
		Hospital: NewAccountView(updated),
		Modified: outcome.Modified > 0,
	}, nil
}

// Deactivate moves an account to inactive. Its tokens stop working at once.
func (s *AccountService) Deactivate(ctx context.Context, account *models.HospitalAccount) error {
	_, _, err := s.apply(ctx, account, models.AccountUpdate{IsActive: models.Set(false)}, "hospital_activation_change")
	return err
}

// SetActiveByEmail performs either activation transition for operators
func (s *AccountService) SetActiveByEmail(ctx context.Context, email string, active bool) (*AccountView, error) {
	account, err := s.store.FindAccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, storeError(s.logger, "find account for activation", err)
	}

	updated, _, err := s.apply(ctx, account, models.AccountUpdate{IsActive: models.Set(active)}, "hospital_activation_change")
	if err != nil {
		return nil, err
	}
	view := NewAccountView(updated)
	return &view, nil
}

// apply writes one partial update, then reloads the account
func (s *AccountService) apply(ctx context.Context, account *models.HospitalAccount, update models.AccountUpdate, action string) (*models.HospitalAccount, models.UpdateOutcome, error) {
	outcome, err := s.store.UpdateAccount(ctx, account.ID, update)
	if err != nil {
		return nil, outcome, storeError(s.logger, action, err)
	}
	if outcome.Matched == 0 {
		return nil, outcome, ErrNotFound
	}

	if update.Location.Present || update.HasICU.Present || update.Specialists.Present ||
		update.Equipment.Present || update.IsActive.Present {
		s.invalidateSearch()
	}
	if outcome.Modified > 0 {
		s.recordAudit(ctx, account.ID, action, describeUpdate(update))
	}

	updated, err := s.store.FindAccountByID(ctx, account.ID)
	if err != nil {
		return nil, outcome, storeError(s.logger, "reload account", err)
	}
	return updated, outcome, nil
}

func normalizeCapabilityTags(field string, tags []string) ([]string, error) {
	normalized := normalizeTags(tags)
	if len(normalized) > maxCapabilityTags {
		return nil, newValidationError(field, fmt.Sprintf("must have at most %d entries", maxCapabilityTags))
	}
	for i, tag := range normalized {
		if len(tag) > 64 || !capabilityPattern.MatchString(tag) {
			return nil, newValidationError(fmt.Sprintf("%s[%d]", field, i), "may only contain letters, digits, spaces, '_' and '-'")
		}
	}
	return normalized, nil
}

func describeUpdate(u models.AccountUpdate) string {
	var fields []string
	if u.Phone.Present {
		fields = append(fields, "phone")
	}
	if u.Address.Present {
		fields = append(fields, "address")
	}
	if u.Location.Present {
		fields = append(fields, fmt.Sprintf("location=[%g,%g]", u.Location.Value.Longitude(), u.Location.Value.Latitude()))
	}
	if u.HasICU.Present {
		fields = append(fields, fmt.Sprintf("hasICU=%t", u.HasICU.Value))
	}
	if u.Specialists.Present {
		fields = append(fields, "specialists="+strings.Join(u.Specialists.Value, ","))
	}
	if u.Equipment.Present {
		fields = append(fields, "equipment="+strings.Join(u.Equipment.Value, ","))
	}
	if u.IsActive.Present {
		fields = append(fields, fmt.Sprintf("is_active=%t", u.IsActive.Value))
	}
	return "Updated " + strings.Join(fields, "; ")
}

func (s *AccountService) invalidateSearch() {
	if s.search != nil {
		s.search.Invalidate()
	}
}

func (s *AccountService) recordAudit(ctx context.Context, id primitive.ObjectID, action, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &id, action, details); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}
