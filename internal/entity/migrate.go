package entity

import "gorm.io/gorm"

func MigrateTable(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Ticket{},
		&Round{},
		&TierPool{},
		&Balance{},
		&Transfer{},
		&EventLog{},
		&SystemState{},
	); err != nil {
		return err
	}

	// The singleton state row must exist before any operation runs.
	state := SystemState{ID: SystemStateID}
	return db.FirstOrCreate(&state, SystemState{ID: SystemStateID}).Error
}
