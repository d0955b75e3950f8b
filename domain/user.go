package domain

import (
	"time"
)

var (
	MessageSuccessRegister = "user registered successfully"
	MessageSuccessLogin    = "user logged in successfully"
	MessageRegisterForm    = "registration form"
	MessageLoginForm       = "login form"

	MessageFailedRegister = "failed to register user"
	MessageFailedLogin    = "failed to login"

	MessageUsernameLength = "Username must be between 3 and 30 characters long"
	MessageUsernameTaken  = "That username has been already taken. Try another one."
	MessageInvalidEmail   = "Invalid email"
	MessageEmailTaken     = "The email you entered is already registered."
	MessageAccountTaken   = "That username or email has just been registered. Try again."
	MessageWeakPassword   = "Password must be at least 8 characters long and contain at least: one uppercase letter, one lowercase letter, one number, and one special character"
	MessagePasswordRepeat = "Password do not match"
	MessageUsernameNeeded = "Username is required"
	MessagePasswordNeeded = "Password is required"

	WelcomeMailSubject = "Welcome to Markit"
)

type (
	RegisterRequest struct {
		Username       string `json:"username" form:"username" validate:"required,min=3,max=30"`
		Email          string `json:"email" form:"email" validate:"required,email"`
		Password       string `json:"password" form:"password" validate:"required,strongpassword"`
		PasswordRepeat string `json:"password_repeat" form:"passwordRepeat" validate:"required,eqfield=Password"`
	}

	LoginRequest struct {
		Username string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		Username string `json:"username"`
		Token    string `json:"token"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}

	FormField struct {
		Name     string `json:"name"`
		Required bool   `json:"required"`
		Hint     string `json:"hint,omitempty"`
	}
)

var (
	RegisterFormFields = []FormField{
		{Name: "username", Required: true, Hint: "3 to 30 characters"},
		{Name: "email", Required: true},
		{Name: "password", Required: true, Hint: "at least 8 characters with upper, lower, digit and special character"},
		{Name: "passwordRepeat", Required: true},
	}

	LoginFormFields = []FormField{
		{Name: "username", Required: true},
		{Name: "password", Required: true},
	}
)
