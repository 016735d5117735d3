// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/project, domain/task).
// This root package holds sentinel errors, the typed errors that wrap them,
// and the calendar-date helpers shared by both entities.
package domain
