// Package prompt assembles the deterministic, parameterized instructions
// for each generation mode from extracted document content.
package prompt

import (
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/sales-assistant/internal/document"
)

// Mode is one of the five supported generation workflows. The set is
// closed: everything keyed on Mode switches exhaustively so a new mode is a
// compile-visible change.
type Mode string

const (
	ModeAnalysis       Mode = "analysis"
	ModeScript         Mode = "script"
	ModePresentation   Mode = "presentation"
	ModeRecommendation Mode = "recommendation"
	ModeEmail          Mode = "email"
)

// Modes enumerates all supported modes in declaration order.
func Modes() []Mode {
	return []Mode{ModeAnalysis, ModeScript, ModePresentation, ModeRecommendation, ModeEmail}
}

// Valid reports whether m names a supported mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeAnalysis, ModeScript, ModePresentation, ModeRecommendation, ModeEmail:
		return true
	}
	return false
}

// Role is the semantic slot an input document fills in a prompt.
type Role string

const (
	RoleProduct    Role = "product"
	RoleCompetitor Role = "competitor"
	RoleCustomer   Role = "customer"
	RoleCatalog    Role = "catalog"
	RoleRecipient  Role = "recipient"
)

// RequiredRoles returns the roles a mode cannot run without.
func (m Mode) RequiredRoles() []Role {
	switch m {
	case ModePresentation:
		return []Role{RoleProduct, RoleCustomer}
	case ModeRecommendation:
		return []Role{RoleCustomer, RoleCatalog}
	default: // analysis, script, email
		return []Role{RoleProduct}
	}
}

// OptionalRoles returns the roles that enrich a mode's prompt when present.
func (m Mode) OptionalRoles() []Role {
	switch m {
	case ModeAnalysis:
		return []Role{RoleCompetitor}
	case ModeScript:
		return []Role{RoleCustomer}
	case ModeEmail:
		return []Role{RoleRecipient}
	default:
		return nil
	}
}

// Category maps a role to the catalog category used for auto-resolution.
// RoleRecipient is explicit-only: there is no recipient folder, so the
// second return is false and the classifier is never consulted for it.
func (r Role) Category() (document.Category, bool) {
	switch r {
	case RoleProduct:
		return document.CategoryProduct, true
	case RoleCompetitor:
		return document.CategoryCompetitor, true
	case RoleCustomer:
		return document.CategoryCustomer, true
	case RoleCatalog:
		return document.CategoryCatalog, true
	}
	return document.CategoryUnknown, false
}

// Options carries the mode-specific generation parameters.
type Options struct {
	Tone             string `validate:"omitempty,oneof=professional friendly consultative"`
	PresentationType string `validate:"omitempty,oneof=standard detailed executive"`
	EmailPurpose     string `validate:"omitempty,oneof=introduction follow_up proposal thank_you"`
}

var optionValidator = validator.New()

// withDefaults fills the parameters a mode consumes with their defaults.
func (o Options) withDefaults() Options {
	if o.Tone == "" {
		o.Tone = "professional"
	}
	if o.PresentationType == "" {
		o.PresentationType = "standard"
	}
	if o.EmailPurpose == "" {
		o.EmailPurpose = "introduction"
	}
	return o
}

// Validate rejects parameter values outside the declared variant sets.
func (o Options) Validate() error {
	if err := optionValidator.Struct(o); err != nil {
		return &AssemblyError{Message: "invalid options", Cause: err}
	}
	return nil
}

// Discriminator returns the option value embedded in the mode's output
// file name, or "" for modes without one.
func (m Mode) Discriminator(o Options) string {
	o = o.withDefaults()
	switch m {
	case ModeScript:
		return o.Tone
	case ModePresentation:
		return o.PresentationType
	case ModeEmail:
		return o.EmailPurpose
	}
	return ""
}
