package errors

import "fmt"

// Convenience functions for common error patterns

// Config errors

func ConfigMissing(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "cannot get config file").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, fmt.Sprintf("cannot parse config file %s", path)).
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Generation pipeline errors

func ContentReadError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryContent, SeverityFatal, fmt.Sprintf("cannot get content of %s", path)).
		WithContext("path", path)
}

// FrontMatterError reports a metadata block that could be read but not decoded.
func FrontMatterError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryValidation, SeverityFatal, fmt.Sprintf("invalid front matter in %s", path)).
		WithContext("path", path)
}

// MarkdownParseError is recorded as a warning: the page is skipped, the run continues.
func MarkdownParseError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryMarkdown, SeverityWarning, fmt.Sprintf("cannot convert %s", path)).
		WithContext("path", path)
}

func LayoutRenderError(layout string, cause error) *SiteError {
	return Wrap(cause, CategoryLayout, SeverityFatal, fmt.Sprintf("cannot render layout %s", layout)).
		WithContext("layout", layout)
}

// FilesystemError names the failed operation (mkdir, delete, write, copy, remove).
func FilesystemError(op, path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, fmt.Sprintf("cannot %s %s", op, path)).
		WithContext("op", op).
		WithContext("path", path)
}

// Deploy errors

func DeployError(step string, cause error) *SiteError {
	return Wrap(cause, CategoryDeploy, SeverityFatal, fmt.Sprintf("deploy failed during %s", step)).
		WithContext("step", step)
}

func PushError(remote string, cause error) *SiteError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "push failed").
		WithContext("remote", remote)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
