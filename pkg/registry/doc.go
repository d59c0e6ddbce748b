// Package registry holds the plain key-value collaborators the template
// engine consumes: named template folders, template helper functions and
// pre-assigned template data. Every registry is safe for concurrent use and
// reports duplicate or missing entries at the call that caused them.
package registry
