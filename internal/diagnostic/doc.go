// Package diagnostic collects structured errors, warnings and notes produced
// while checking rule sets and while reporting on transformation runs.
//
// Every diagnostic carries a stable snake_case code, the rule it concerns and,
// where one is known, the offending field plus suggested corrections.
package diagnostic
