package models

import (
	"fmt"
	"time"
)

type ContextKey string

const (
	TenantIDKey ContextKey = "tenant_id"
)

// Role is the fixed role set of the platform. Root is the tenant owner,
// admins manage the departments they were granted, employees see their
// own organizational scope.
type Role string

const (
	RoleRoot     Role = "root"
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleRoot || r == RoleAdmin || r == RoleEmployee
}

// PermissionLevel is the access level requested on a department.
type PermissionLevel string

const (
	PermissionRead   PermissionLevel = "read"
	PermissionWrite  PermissionLevel = "write"
	PermissionDelete PermissionLevel = "delete"
)

// Error codes surfaced in the error envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeServerError  = "SERVER_ERROR"
)

// AppError is the typed error services return. Controllers map it to the
// HTTP status; anything that is not an AppError becomes a 500.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, StatusCode: 400}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg, StatusCode: 401}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg, StatusCode: 403}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg, StatusCode: 404}
}

func NewConflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg, StatusCode: 409}
}

func NewServerError(msg string) *AppError {
	return &AppError{Code: CodeServerError, Message: msg, StatusCode: 500}
}

type AuditAction string

const (
	AuditActionCreate      AuditAction = "CREATE"
	AuditActionUpdate      AuditAction = "UPDATE"
	AuditActionDelete      AuditAction = "DELETE"
	AuditActionLogin       AuditAction = "LOGIN"
	AuditActionStatus      AuditAction = "STATUS_CHANGE"
	AuditActionAssign      AuditAction = "ASSIGN"
	AuditActionPermissions AuditAction = "PERMISSIONS_REPLACE"
	AuditActionRevoke      AuditAction = "PERMISSIONS_REVOKE"
	AuditActionConfirm     AuditAction = "CONFIRM"
	AuditActionExport      AuditAction = "EXPORT"
)

// AuditLog is an immutable trail entry. Details holds a small JSON
// summary of the change, never the full payload.
type AuditLog struct {
	ID        int64                  `json:"id"`
	TenantID  int64                  `json:"tenantId"`
	Action    AuditAction            `json:"action"`
	Entity    string                 `json:"entity"`
	EntityID  int64                  `json:"entityId"`
	ActorID   int64                  `json:"actorId"`
	ActorName string                 `json:"actorName,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// SystemLog is the row shape the async zap sink writes.
type SystemLog struct {
	Message      string    `json:"message"`
	Level        int       `json:"level"`
	Caller       string    `json:"caller"`
	AppID        string    `json:"appId"`
	CreatedOnUtc time.Time `json:"createdOnUtc"`
}
