package model

// All lists every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Product{},
		&Review{},
		&SocialPost{},
		&PriceHistory{},
		&Availability{},
		&JobRun{},
	}
}
