package export

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrDuplicateMappingKey   = NewDomainError("DUPLICATE_MAPPING_KEY", "Field mapping data-source keys must be unique")
	ErrNoEnabledExportTypes  = NewDomainError("NO_ENABLED_EXPORT_TYPES", "No enabled export types are configured")
	ErrDataSourceUnavailable = NewDomainError("DATA_SOURCE_UNAVAILABLE", "Commerce data source is not reachable")
	ErrStorageNotConfigured  = NewDomainError("STORAGE_NOT_CONFIGURED", "Object storage credentials or bucket are incomplete")
)
