package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapDocumentError wraps device description parsing/import errors
func WrapDocumentError(err error, path string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to read device description %s", path),
		Reason:  extractDocumentReason(err),
		Hint:    "The file must be an EtherCATInfo XML document with Vendor/Id and Device Type ProductCode/RevisionNo",
		Try:     fmt.Sprintf("xmllint --noout %s", path),
		Err:     err,
	}
}

// WrapImageError wraps binary image decode errors
func WrapImageError(err error, path string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to decode EEPROM image %s", path),
		Reason:  err.Error(),
		Hint:    "An SII image is at least 128 bytes: 16-byte preamble plus 112-byte standard configuration",
		Try:     fmt.Sprintf("esitool info %s", path),
		Err:     err,
	}
}

// WrapDeviceError wraps failures of the external ethercat tool
func WrapDeviceError(err error, position int) error {
	if err == nil {
		return nil
	}

	message := fmt.Sprintf("Failed to access slave %d via the ethercat tool", position)
	if position < 0 {
		message = "Failed to list slaves via the ethercat tool"
	}
	return UserFriendlyError{
		Message: message,
		Reason:  extractDeviceReason(err),
		Hint:    "The EtherCAT master must be running and the ethercat command line tool installed",
		Try:     "ethercat slaves",
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "esitool.yaml holds the ethercat tool path, master index, timeout and log settings",
		Try:     fmt.Sprintf("esitool info --config %s", configPath),
		Err:     err,
	}
}

func extractDocumentReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "missing") {
		return "A required element is absent - the codec has no defaults for device identity fields"
	}
	if strings.Contains(errStr, "XML syntax error") {
		return "The document is not well-formed XML"
	}
	if strings.Contains(errStr, "no device") {
		return "The Descriptions/Devices section contains no Device element"
	}

	return errStr
}

func extractDeviceReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "executable file not found") {
		return "The ethercat command line tool is not on PATH"
	}
	if strings.Contains(errStr, "permission denied") {
		return "No permission to access the EtherCAT master device node"
	}
	if strings.Contains(errStr, "deadline exceeded") || strings.Contains(errStr, "timeout") {
		return "The tool did not respond within the configured timeout"
	}

	return errStr
}
