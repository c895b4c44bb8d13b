// Package diagnosis turns a company's Likert self-assessment into a G-DAX
// diagnosis report: dimension scores, a climate/digital quadrant, flagged
// employment issues and matched interventions.
//
// Every function here is pure. Catalog data lives in package-level tables
// that are never mutated; callers always receive copies.
package diagnosis
