// Package utils provides utility functions and helpers for common operations
// used throughout the application. It includes string manipulation, error checking,
// data sanitization and response helpers.
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/mambagroup/inventory-backend/internal/constants"
)

// fileSizeUnits are decimal (SI) units, matching what the frontend displays.
var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB"}

// FormatFileSize renders a byte count as a short human readable string,
// for example 12345 becomes "12.35 KB".
//
// Parameters:
//   - bytes: the size in bytes
//   - decimals: the maximum number of decimal places to keep
//
// Returns:
//   - the formatted size with trailing zeros removed
func FormatFileSize(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	if decimals <= 0 {
		decimals = 2
	}

	index := int(math.Floor(math.Log(float64(bytes)) / math.Log(1000)))
	if index >= len(fileSizeUnits) {
		index = len(fileSizeUnits) - 1
	}

	value := float64(bytes) / math.Pow(1000, float64(index))
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', decimals, 64), 64)

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + fileSizeUnits[index]
}

// FirstNonEmpty returns the first argument that is not empty after trimming.
// Updates use it to keep the stored value when a field is omitted.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// MaskEmail masks the user part of an email address, showing only the first and last character.
//
// For example: "user@example.com" becomes "u**r@example.com". Short user parts are
// fully starred, and anything that is not a single-line address with one "@" is
// replaced by the redaction marker.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	user, domain, found := strings.Cut(email, "@")
	if !found || user == "" || domain == "" || strings.Contains(domain, "@") || strings.ContainsAny(email, "\r\n") {
		return constants.LogRedactedValue
	}

	runes := []rune(user)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes)) + "@" + domain
	}

	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1]) + "@" + domain
}

// SanitizeKeys removes potentially sensitive fields from a map.
// It recursively traverses through maps and slices of maps to sanitize nested structures.
//
// Parameters:
//   - data: the map to sanitize
//
// Returns:
//   - a new map with sensitive values redacted
func SanitizeKeys(data map[string]interface{}) map[string]interface{} {
	sensitiveKeys := map[string]bool{
		constants.ColumnPasswordHash: true,
		constants.ColumnSalt:         true,
		constants.ColumnTokenHash:    true,
		"password":                   true,
		"oldpassword":                true,
		"token":                      true,
		"resettoken":                 true,
		"secret":                     true,
	}

	result := make(map[string]interface{})

	for k, v := range data {
		if sensitiveKeys[strings.ToLower(k)] {
			result[k] = constants.LogRedactedValue
			continue
		}

		if nestedMap, ok := v.(map[string]interface{}); ok {
			result[k] = SanitizeKeys(nestedMap)
			continue
		}

		if nestedMapSlice, ok := v.([]map[string]interface{}); ok {
			sanitizedSlice := make([]map[string]interface{}, len(nestedMapSlice))
			for i, nestedMap := range nestedMapSlice {
				sanitizedSlice[i] = SanitizeKeys(nestedMap)
			}
			result[k] = sanitizedSlice
			continue
		}

		result[k] = v
	}

	return result
}
