package model

import "context"

// OrgConfigStore reads organization-wide settings.
type OrgConfigStore interface {
	Get(ctx context.Context) (OrgConfig, error)
}

// OrgConfig holds the organizational codes used to build business ids.
type OrgConfig struct {
	IDPrefix     string
	LocationCode string
	BranchCode   string
}

// WithDefaults fills empty fields from def.
func (c OrgConfig) WithDefaults(def OrgConfig) OrgConfig {
	if c.IDPrefix == "" {
		c.IDPrefix = def.IDPrefix
	}
	if c.LocationCode == "" {
		c.LocationCode = def.LocationCode
	}
	if c.BranchCode == "" {
		c.BranchCode = def.BranchCode
	}
	return c
}
