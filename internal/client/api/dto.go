package api

import "github.com/taskora/taskora-cli/internal/client/session"

// RegisterData carries everything the registration endpoint accepts.
// Role and Phone are optional and omitted from the request when empty.
type RegisterData struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      session.Role
	Phone     string
}

// AuthResult is the successful outcome of a login or register call.
type AuthResult struct {
	User         *session.User `json:"user"`
	Token        string        `json:"token"`
	RefreshToken string        `json:"refreshToken"`
}

// Project is a single row of the project list.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	TaskCount int    `json:"taskCount"`
}

// Task is a single row of the task list.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	ProjectID string `json:"projectId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error   string        `json:"error"`
	Details []ErrorDetail `json:"details"`
}
