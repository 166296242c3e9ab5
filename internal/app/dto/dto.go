package dto

import "time"

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Заявки (Requests) ============

// Даты передаются строками в формате 2006-01-02
type CreateRequestRequest struct {
	StartedSkipping  string `json:"started_skipping" binding:"required"`
	FinishedSkipping string `json:"finished_skipping" binding:"required"`
	Reason           string `json:"reason"`
}

type RequestResultResponse struct {
	ID               uint      `json:"id"`
	StartedSkipping  time.Time `json:"started_skipping"`
	FinishedSkipping time.Time `json:"finished_skipping"`
	Reason           string    `json:"reason,omitempty"`
	Status           string    `json:"status"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
}

type ExtendRequestDateRequest struct {
	ExtendSkipping string `json:"extend_skipping" binding:"required"`
}

type ExtendRequestDateResult struct {
	ID               uint      `json:"id"`
	FinishedSkipping time.Time `json:"finished_skipping"`
	Status           string    `json:"status"`
}

type RequestListItem struct {
	ID               uint      `json:"id"`
	StartedSkipping  time.Time `json:"started_skipping"`
	FinishedSkipping time.Time `json:"finished_skipping"`
	Status           string    `json:"status"`
	UserID           uint      `json:"user_id"`
	UserLogin        string    `json:"user_login"`
}

type RequestListResponse struct {
	Requests []RequestListItem `json:"requests"`
	Total    int               `json:"total"`
}

type RequestDetailsResponse struct {
	ID               uint         `json:"id"`
	StartedSkipping  time.Time    `json:"started_skipping"`
	FinishedSkipping time.Time    `json:"finished_skipping"`
	Reason           string       `json:"reason,omitempty"`
	Status           string       `json:"status"`
	User             UserResponse `json:"user"`
	Files            []FileInfo   `json:"files"`
}

// ============ Файлы (Proofs) ============

type FileResultResponse struct {
	ID       uint   `json:"id"`
	FileName string `json:"file_name"`
}

type FileInfo struct {
	ID          uint   `json:"id"`
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url"`
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID       uint   `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Role     int    `json:"role"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
