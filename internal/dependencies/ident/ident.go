package ident

import "github.com/google/uuid"

// Generator provides unique id generation that can be mocked for testing
type Generator interface {
	// NewID returns an opaque unique string
	NewID() string
}

// UUIDGenerator implements Generator using random UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a random UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
