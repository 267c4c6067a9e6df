package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"recreo/errs"
	"recreo/globals"
	"recreo/models"
	"recreo/utils"
	"recreo/validation"
)

const (
	AllFieldsMsg         = "All fields required."
	InvalidEmailMsg      = "E-mail is not valid!"
	IncorrectUserMsg     = "Incorrect username."
	IncorrectPasswordMsg = "Incorrect password."
)

type Users interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type registerBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Nickname string `json:"nickname" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginBody struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	users  Users
	tokens *TokenService
}

func NewHandler(users Users, tokens *TokenService) *Handler {
	return &Handler{users: users, tokens: tokens}
}

func checkEmail(email string) error {
	if !validation.Var(email, "email") {
		return errs.Validation(InvalidEmailMsg)
	}
	return nil
}

// Register creates a user and returns a fresh token.
func (h *Handler) Register(ctx context.Context, name, email, nickname, password string) (string, error) {
	body := registerBody{Name: name, Email: strings.TrimSpace(email), Nickname: nickname, Password: password}
	if err := validation.Check(&body, AllFieldsMsg); err != nil {
		return "", err
	}
	if err := checkEmail(body.Email); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap("auth.register", err)
	}
	u := &models.User{
		Email:    body.Email,
		Name:     body.Name,
		Nickname: body.Nickname,
		Role:     models.RoleUser,
		Hash:     string(hash),
	}
	if err := h.users.Create(ctx, u); err != nil {
		return "", errs.Wrap("auth.register", err)
	}
	return h.issue(u)
}

// Login checks the credentials and returns a fresh token.
func (h *Handler) Login(ctx context.Context, email, password string) (string, error) {
	body := loginBody{Email: strings.TrimSpace(email), Password: password}
	if err := validation.Check(&body, AllFieldsMsg); err != nil {
		return "", err
	}
	if err := checkEmail(body.Email); err != nil {
		return "", err
	}
	u, err := h.users.FindByEmail(ctx, body.Email)
	if errors.Is(err, errs.ErrNoDocument) {
		return "", errs.Authentication(IncorrectUserMsg)
	}
	if err != nil {
		return "", errs.Wrap("auth.login", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(body.Password)) != nil {
		return "", errs.Authentication(IncorrectPasswordMsg)
	}
	return h.issue(u)
}

func (h *Handler) issue(u *models.User) (string, error) {
	token, err := h.tokens.Issue(u)
	if err != nil {
		return "", errs.Wrap("auth.token", err)
	}
	return token, nil
}

// RegisterUser handles POST /register.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	var body registerBody
	if err := utils.DecodeBody(r, &body); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	token, err := h.Register(ctx, body.Name, body.Email, body.Nickname, body.Password)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// LoginUser handles POST /login.
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	var body loginBody
	if err := utils.DecodeBody(r, &body); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	token, err := h.Login(ctx, body.Email, body.Password)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tokenResponse{Token: token})
}
