package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func ScanError(root string, cause error) *SiteError {
	return Wrap(cause, CategoryContent, SeverityFatal, "content scan failed").
		WithContext("root", root)
}

func PageMetaError(page string, cause error) *SiteError {
	return Wrap(cause, CategoryContent, SeverityError, "page metadata unreadable").
		WithContext("page", page)
}

// Emit pipeline errors

func EmitFailed(stage string, cause error) *SiteError {
	return Wrap(cause, CategoryEmit, SeverityFatal, "emit failed").
		WithContext("stage", stage)
}

func StagingError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "staging operation failed").
		WithContext("operation", operation)
}

// Network errors

func NetworkTimeout(url string, cause error) *SiteError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "network timeout").
		WithContext("url", url)
}

func EventPublishError(subject string, cause error) *SiteError {
	return WrapRetryable(cause, CategoryEvents, SeverityWarning, "event publish failed").
		WithContext("subject", subject)
}

// Store errors

func StoreError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryStore, SeverityError, "run store operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
