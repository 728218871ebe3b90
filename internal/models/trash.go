package models

import (
	"strings"
	"time"
)

// EntityKind tags the soft-deletable entity types
type EntityKind string

const (
	EntityFormations      EntityKind = "formations"
	EntityQuoteRequests   EntityKind = "demandes_devis"
	EntityContactMessages EntityKind = "contact_messages"
)

// Label is the capitalized human form of the tag, "demandes_devis" becoming "Demandes devis"
func (k EntityKind) Label() string {
	s := strings.ReplaceAll(string(k), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const (
	// DeletedByFallback is recorded when a deletion happens without a known user
	DeletedByFallback = "Système"
	// TrashTitlePlaceholder is shown for trashed rows without title, name or subject
	TrashTitlePlaceholder = "—"
)

// TrashEntry is the trash view of one soft-deleted record. It is never stored.
type TrashEntry struct {
	ID        int64      `json:"id"`
	Entity    EntityKind `json:"entity"`
	Title     string     `json:"title"`
	DeletedBy string     `json:"deleted_by"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// TrashTitle picks the first non-empty of title, name and subject
func TrashTitle(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && strings.TrimSpace(*c) != "" {
			return *c
		}
	}
	return TrashTitlePlaceholder
}

// DeletedByOrFallback returns the recorded deleter or the system label
func DeletedByOrFallback(deletedBy *string) string {
	if deletedBy == nil || *deletedBy == "" {
		return DeletedByFallback
	}
	return *deletedBy
}

// MessageResponse is a plain confirmation body
type MessageResponse struct {
	Message string `json:"message"`
}
