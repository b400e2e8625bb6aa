// Package auth acquires OAuth credentials for the Google Workspace surfaces.
package auth

import (
	"fmt"
	"slices"
	"strings"
)

// OAuth scopes for Google APIs
const (
	ScopeDrive                  = "https://www.googleapis.com/auth/drive"
	ScopeDocuments              = "https://www.googleapis.com/auth/documents"
	ScopeSheets                 = "https://www.googleapis.com/auth/spreadsheets"
	ScopeCalendar               = "https://www.googleapis.com/auth/calendar"
	ScopeTasks                  = "https://www.googleapis.com/auth/tasks"
	ScopeFormsBody              = "https://www.googleapis.com/auth/forms.body"
	ScopeFormsResponsesReadonly = "https://www.googleapis.com/auth/forms.responses.readonly"
	ScopeGmailSend              = "https://www.googleapis.com/auth/gmail.send"
)

// Surface is one Google Workspace API family
type Surface string

const (
	SurfaceDrive    Surface = "drive"
	SurfaceDocs     Surface = "docs"
	SurfaceSheets   Surface = "sheets"
	SurfaceCalendar Surface = "calendar"
	SurfaceTasks    Surface = "tasks"
	SurfaceForms    Surface = "forms"
	SurfaceGmail    Surface = "gmail"
)

// AllSurfaces lists every supported surface in a stable order
var AllSurfaces = []Surface{
	SurfaceDrive,
	SurfaceDocs,
	SurfaceSheets,
	SurfaceCalendar,
	SurfaceTasks,
	SurfaceForms,
	SurfaceGmail,
}

var surfaceScopes = map[Surface][]string{
	SurfaceDrive:    {ScopeDrive},
	SurfaceDocs:     {ScopeDocuments},
	SurfaceSheets:   {ScopeSheets},
	SurfaceCalendar: {ScopeCalendar},
	SurfaceTasks:    {ScopeTasks},
	SurfaceForms:    {ScopeFormsBody, ScopeFormsResponsesReadonly},
	SurfaceGmail:    {ScopeGmailSend},
}

// hostedExcluded are the surfaces the hosted notebook identity broker is never asked for
var hostedExcluded = []Surface{SurfaceCalendar, SurfaceForms, SurfaceTasks}

// ParseSurface converts a case-insensitive name into a Surface
func ParseSurface(name string) (Surface, error) {
	s := Surface(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := surfaceScopes[s]; !ok {
		return "", fmt.Errorf("unknown surface %q", name)
	}
	return s, nil
}

// ParseSurfaces converts names into surfaces. An empty list means every surface.
func ParseSurfaces(names []string) ([]Surface, error) {
	if len(names) == 0 {
		return slices.Clone(AllSurfaces), nil
	}
	surfaces := make([]Surface, 0, len(names))
	for _, name := range names {
		s, err := ParseSurface(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(surfaces, s) {
			surfaces = append(surfaces, s)
		}
	}
	return surfaces, nil
}

// ScopesFor returns the fixed scope list of one surface
func ScopesFor(s Surface) []string {
	return slices.Clone(surfaceScopes[s])
}

// ResolveScopes returns the sorted union of scopes needed for the given surfaces.
// No surfaces means every surface.
func ResolveScopes(surfaces ...Surface) []string {
	if len(surfaces) == 0 {
		surfaces = AllSurfaces
	}
	var scopes []string
	for _, s := range surfaces {
		scopes = append(scopes, surfaceScopes[s]...)
	}
	slices.Sort(scopes)
	return slices.Compact(scopes)
}

// HostedScopes resolves scopes for the hosted identity broker. Calendar, Forms
// and Tasks are never requested on that path; requested surfaces that fall in
// that set are returned as excluded.
func HostedScopes(surfaces ...Surface) (scopes []string, excluded []Surface) {
	if len(surfaces) == 0 {
		surfaces = AllSurfaces
	}
	allowed := make([]Surface, 0, len(surfaces))
	for _, s := range surfaces {
		if slices.Contains(hostedExcluded, s) {
			excluded = append(excluded, s)
			continue
		}
		allowed = append(allowed, s)
	}
	if len(allowed) == 0 {
		return nil, excluded
	}
	return ResolveScopes(allowed...), excluded
}

// hasAllScopes reports whether granted covers every scope in required
func hasAllScopes(granted, required []string) bool {
	for _, scope := range required {
		if !slices.Contains(granted, scope) {
			return false
		}
	}
	return true
}
