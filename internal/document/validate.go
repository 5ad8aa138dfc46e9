package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/markhub/markhub/internal/stamps"
	"github.com/markhub/markhub/pkg/apperr"
)

const (
	nameMinLen = 2
	nameMaxLen = 100

	descriptionMinLen = 10
	descriptionMaxLen = 250

	maxTags    = 10
	tagMinLen  = 2
	tagMaxLen  = 30
	maxCodeLen = 100000
)

var (
	nameRgx  = regexp.MustCompile(`^[a-zA-Z0-9]+(?:\s[a-zA-Z0-9]+)*$`)
	pathRgx  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+){1,9}$`)
	tagRgx   = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	spaceRgx = regexp.MustCompile(`\s+`)
)

// NormalizeName trims and collapses whitespace, then validates the charset
// (letters and digits separated by single spaces) and length bounds shared by
// every handler that accepts a document name.
func NormalizeName(raw string) (string, error) {
	name := spaceRgx.ReplaceAllString(strings.TrimSpace(raw), " ")
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return "", apperr.InvalidArgument(fmt.Sprintf("document name must be between %d and %d characters", nameMinLen, nameMaxLen))
	}
	if !nameRgx.MatchString(name) {
		return "", apperr.InvalidArgument("document name may contain only letters and digits separated by single spaces")
	}
	return name, nil
}

// PathFromName derives the URL-safe slug for permanent documents: lower-cased
// name with spaces replaced by hyphens, 2-10 alphanumeric segments.
func PathFromName(name string) (string, error) {
	path := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	if !pathRgx.MatchString(path) {
		return "", apperr.InvalidArgument("permanent document name must produce a path of 2-10 hyphen-separated segments")
	}
	return path, nil
}

// ValidateDescription checks the description required for permanent documents.
func ValidateDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if len(description) < descriptionMinLen || len(description) > descriptionMaxLen {
		return "", apperr.InvalidArgument(fmt.Sprintf("description must be between %d and %d characters", descriptionMinLen, descriptionMaxLen))
	}
	return description, nil
}

// ValidateTags normalizes the optional tag list of a permanent document.
// A nil list is valid and becomes the empty list.
func ValidateTags(raw []string) ([]string, error) {
	if len(raw) > maxTags {
		return nil, apperr.InvalidArgument(fmt.Sprintf("at most %d tags are allowed", maxTags))
	}
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		tag := strings.TrimSpace(t)
		if len(tag) < tagMinLen || len(tag) > tagMaxLen || !tagRgx.MatchString(tag) {
			return nil, apperr.InvalidArgument("tags must be alphanumeric, between 2 and 30 characters")
		}
		if _, dup := seen[tag]; dup {
			return nil, apperr.InvalidArgument("duplicate tag: " + tag)
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ValidateStamp checks the client-observed mdate format before it is compared
// against the stored value.
func ValidateStamp(stamp string) error {
	if !stamps.Valid(stamp) {
		return apperr.InvalidArgument("mdate must be an ISO-8601 timestamp with millisecond precision")
	}
	return nil
}

// ValidateCode bounds the content body. Code has no uniqueness or charset
// rules.
func ValidateCode(code string) error {
	if len(code) > maxCodeLen {
		return apperr.InvalidArgument(fmt.Sprintf("document content exceeds %d characters", maxCodeLen))
	}
	return nil
}
