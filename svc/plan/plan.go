// Package plan implements the plan catalog: reference data describing
// purchasable pricing tiers. Plans are never updated once created, so a
// subscription can rely on its plan reference staying stable while the
// invoice still snapshots the price at billing time.
package plan

import (
	"time"

	"github.com/google/uuid"
)

// Module identifies the product area a plan belongs to.
type Module string

const (
	ModuleCloudSecurity    Module = "Cloud Security"
	ModuleEndpointSecurity Module = "Endpoint Security"
	ModuleNetworkSecurity  Module = "Network Security"
	ModuleCompliance       Module = "Compliance"
	ModuleVAPT             Module = "VAPT"
)

// Valid reports whether the module is one of the known product areas.
func (m Module) Valid() bool {
	switch m {
	case ModuleCloudSecurity, ModuleEndpointSecurity, ModuleNetworkSecurity, ModuleCompliance, ModuleVAPT:
		return true
	}
	return false
}

// BillingCycle is the charge interval of a plan.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Valid reports whether the billing cycle is supported.
func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// Plan is a purchasable pricing tier. Price is in the smallest currency
// unit (cents, paise) and never floating point.
type Plan struct {
	ID           uuid.UUID
	Name         string
	Module       Module
	Price        int64
	BillingCycle BillingCycle
	Features     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams carries the fields required to create a plan.
type CreateParams struct {
	Name         string       `yaml:"name"`
	Module       Module       `yaml:"module"`
	Price        int64        `yaml:"price"`
	BillingCycle BillingCycle `yaml:"billing_cycle"`
	Features     []string     `yaml:"features"`
}
