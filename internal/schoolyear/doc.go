// Package schoolyear resolves bare month names to absolute years under the
// academic-year convention: a school year spans August of the start year
// through July of the following year.
package schoolyear
