package model

import "github.com/google/uuid"

type Material struct {
	ID           uuid.UUID
	Name         string
	Code         string
	BusinessType string
	DefaultUnit  string
	IsActive     bool
}
