package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"pawmart/internal/auth"
	"pawmart/internal/domain"
	"pawmart/internal/repos"
	"pawmart/internal/validate"
)

type AuthService struct {
	Users      *repos.UserRepo
	Tokens     *auth.Tokens
	Mail       Mailer
	BcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users *repos.UserRepo, tokens *auth.Tokens, mail Mailer, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{Users: users, Tokens: tokens, Mail: mailerOrNoop(mail), BcryptCost: bcryptCost}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a buyer or seller account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	var details []string
	name, ok := validate.Text(in.Name, 2, 50)
	if !ok {
		details = append(details, `"name" length must be between 2 and 50 characters`)
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		details = append(details, `"email" must be a valid email`)
	}
	if !validate.Password(in.Password) {
		details = append(details, `"password" length must be between 6 and 72 characters`)
	}
	role := domain.RoleBuyer
	if in.Role != "" {
		role = domain.Role(in.Role)
		if role != domain.RoleBuyer && role != domain.RoleSeller {
			details = append(details, `"role" must be one of [buyer, seller]`)
		}
	}
	phone := ""
	if in.Phone != "" {
		if phone, ok = validate.Phone(in.Phone); !ok {
			details = append(details, `"phone" must be 10 to 15 digits`)
		}
	}
	address, ok := validate.Text(in.Address, 0, 200)
	if !ok {
		details = append(details, `"address" length must be at most 200 characters`)
	}
	if len(details) > 0 {
		return nil, "", domain.Invalid(details...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{
		Email:   email,
		Name:    name,
		Hash:    string(hash),
		Role:    role,
		Phone:   phone,
		Address: address,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	s.Mail.Welcome(u)
	return u, tok, nil
}

// Login checks credentials. Unknown emails and wrong passwords are indistinguishable
// to the caller, including in how long the check takes.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, string, error) {
	if in.Email == "" || in.Password == "" {
		return nil, "", domain.Invalid(`"email" and "password" are required`)
	}
	email, ok := validate.Email(in.Email)
	var u *domain.User
	if ok {
		var err error
		u, err = s.Users.ByEmail(ctx, email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, "", err
		}
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(in.Password))
		return nil, "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(in.Password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("pawmart-dummy-password"), s.BcryptCost)
	})
	return s.dummyHash
}

func (s *AuthService) Profile(ctx context.Context, id auth.Identity) (*domain.User, error) {
	return s.Users.ByID(ctx, id.UserID)
}

type ProfileInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateProfile changes only name, phone and address.
func (s *AuthService) UpdateProfile(ctx context.Context, id auth.Identity, in ProfileInput) (*domain.User, error) {
	var (
		upd     domain.ProfileUpdate
		details []string
	)
	if in.Name != nil {
		v, ok := validate.Text(*in.Name, 2, 50)
		if !ok {
			details = append(details, `"name" length must be between 2 and 50 characters`)
		}
		upd.Name = &v
	}
	if in.Phone != nil {
		v, ok := validate.Phone(*in.Phone)
		if !ok && v != "" {
			details = append(details, `"phone" must be 10 to 15 digits`)
		}
		upd.Phone = &v
	}
	if in.Address != nil {
		v, ok := validate.Text(*in.Address, 0, 200)
		if !ok {
			details = append(details, `"address" length must be at most 200 characters`)
		}
		upd.Address = &v
	}
	if len(details) > 0 {
		return nil, domain.Invalid(details...)
	}
	return s.Users.UpdateProfile(ctx, id.UserID, upd)
}
