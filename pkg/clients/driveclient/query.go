package driveclient

import (
	"fmt"
	"strings"
)

// Query describes a files.list search
type Query struct {
	// FolderID restricts results to direct children; empty searches everywhere
	FolderID string
	// Contains matches names containing the text
	Contains string
	// ExactName matches names exactly
	ExactName     string
	MimeTypes     []string
	OnlyFolders   bool
	SharedDriveID string
	PageSize      int
}

// String renders the Drive query language expression
func (q Query) String() string {
	var terms []string

	if q.FolderID != "" {
		terms = append(terms, fmt.Sprintf("'%s' in parents", Escape(q.FolderID)))
	}
	if q.Contains != "" {
		terms = append(terms, fmt.Sprintf("name contains '%s'", Escape(q.Contains)))
	}
	if q.ExactName != "" {
		terms = append(terms, fmt.Sprintf("name = '%s'", Escape(q.ExactName)))
	}
	terms = append(terms, "trashed = false")

	switch {
	case q.OnlyFolders:
		terms = append(terms, fmt.Sprintf("mimeType = '%s'", MimeFolder))
	case len(q.MimeTypes) > 0:
		mimeTerms := make([]string, len(q.MimeTypes))
		for i, mt := range q.MimeTypes {
			mimeTerms[i] = fmt.Sprintf("mimeType = '%s'", Escape(mt))
		}
		terms = append(terms, "("+strings.Join(mimeTerms, " or ")+")")
	}

	return strings.Join(terms, " and ")
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Escape quotes a value for use inside a single-quoted query term
func Escape(value string) string {
	return queryEscaper.Replace(value)
}
